package uri

import (
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/grammar"
)

// NormalizeFlags is a set of URI normalizations, see [URI.Normalize].
type NormalizeFlags uint

const (
	// CapitalizePercentEncoding upper-cases hex digits of percent-encoded triples.
	//
	//	http://example.org/a%c2%b1b → http://example.org/a%C2%B1b
	CapitalizePercentEncoding NormalizeFlags = 1 << iota
	// DecodeUnreservedCharacters decodes percent-encoded unreserved characters.
	//
	//	http://example.org/%7Eusern%61me/ → http://example.org/~username/
	DecodeUnreservedCharacters
	// ConvertEmptyPath converts the empty path of http and https URIs to "/".
	//
	//	http://example.org → http://example.org/
	ConvertEmptyPath
	// RemoveDefaultHost removes the default "localhost" host of file URIs.
	//
	//	file://localhost/myfile → file:///myfile
	RemoveDefaultHost
	// RemoveDefaultPort removes the default port of the scheme.
	//
	//	http://example.org:80/ → http://example.org/
	RemoveDefaultPort
	// RemoveDotSegments removes "." and ".." path segments.
	//
	//	http://example.org/../a/b/../c/./d.html → http://example.org/a/c/d.html
	RemoveDotSegments
	// RemoveDuplicateSlashes collapses runs of slashes in the path.
	//
	//	http://example.org//foo///bar.html → http://example.org/foo/bar.html
	RemoveDuplicateSlashes
	// SortQueryParameters sorts query pairs by their byte values.
	// Order of query parameters may be significant, so this normalization may change
	// the semantics of the URI.
	//
	//	?lang=en&article=fred → ?article=fred&lang=en
	SortQueryParameters

	// PreservingNormalizations is the set of normalizations that preserve semantics of the URI.
	PreservingNormalizations = CapitalizePercentEncoding |
		DecodeUnreservedCharacters |
		ConvertEmptyPath |
		RemoveDefaultHost |
		RemoveDefaultPort |
		RemoveDotSegments
)

// DefaultHost is the host removed from file URIs by [RemoveDefaultHost].
const DefaultHost = "localhost"

var normalizeFlagNames = []struct {
	flag NormalizeFlags
	name string
}{
	{CapitalizePercentEncoding, "capitalize-percent-encoding"},
	{DecodeUnreservedCharacters, "decode-unreserved-characters"},
	{ConvertEmptyPath, "convert-empty-path"},
	{RemoveDefaultHost, "remove-default-host"},
	{RemoveDefaultPort, "remove-default-port"},
	{RemoveDotSegments, "remove-dot-segments"},
	{RemoveDuplicateSlashes, "remove-duplicate-slashes"},
	{SortQueryParameters, "sort-query-parameters"},
}

// String returns "|" separated names of flags.
func (f NormalizeFlags) String() string {
	var names []string
	for _, fn := range normalizeFlagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseNormalizeFlag returns a flag by its name, e.g. "remove-dot-segments".
// The name "preserving" returns [PreservingNormalizations].
func ParseNormalizeFlag(name string) (NormalizeFlags, bool) {
	if name == "preserving" {
		return PreservingNormalizations, true
	}
	for _, fn := range normalizeFlagNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

// Normalize returns a normalized copy of the URI.
// Normalizations are applied in the order of flags declaration,
// e.g. percent-encoded dots are decoded before dot segments are removed.
func (u URI) Normalize(flags NormalizeFlags) (URI, error) {
	var err error
	if flags&CapitalizePercentEncoding != 0 {
		if u, err = u.WithPath(grammar.UpperPercent(u.path)); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
		u = u.WithQuery(grammar.UpperPercent(u.query))
	}

	if flags&DecodeUnreservedCharacters != 0 {
		if u, err = u.WithPath(grammar.DecodeUnreserved(u.path)); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
		u = u.WithQuery(grammar.DecodeUnreserved(u.query))
	}

	if flags&ConvertEmptyPath != 0 && u.path == "" && (u.scheme == "http" || u.scheme == "https") {
		if u, err = u.WithPath("/"); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
	}

	if flags&RemoveDefaultHost != 0 && u.scheme == "file" && u.host == DefaultHost {
		if u, err = u.WithHost(""); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
	}

	if flags&RemoveDefaultPort != 0 && u.hasPort && u.IsDefaultPort() {
		if u, err = u.WithoutPort(); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
	}

	if flags&RemoveDotSegments != 0 && !u.IsRelativePathReference() {
		if u, err = u.WithPath(RemoveDotSegmentsFromPath(u.path)); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
	}

	if flags&RemoveDuplicateSlashes != 0 {
		if u, err = u.WithPath(collapseSlashes(u.path)); err != nil {
			return URI{}, errtrace.Wrap(err)
		}
	}

	if flags&SortQueryParameters != 0 && u.query != "" {
		pairs := strings.Split(u.query, "&")
		slices.Sort(pairs)
		u = u.WithQuery(strings.Join(pairs, "&"))
	}

	return u, nil
}

// RemoveDotSegmentsFromPath removes "." and ".." segments from the path
// according to RFC 3986 Section 5.2.4.
func RemoveDotSegmentsFromPath(path string) string {
	if path == "" || path == "/" {
		return path
	}

	var (
		segs = strings.Split(path, "/")
		out  = make([]string, 0, len(segs))
	)
	for _, seg := range segs {
		switch seg {
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case ".":
		default:
			out = append(out, seg)
		}
	}

	res := strings.Join(out, "/")
	switch last := segs[len(segs)-1]; {
	case path[0] == '/' && !strings.HasPrefix(res, "/"):
		// "/.." and alike lose the leading slash
		res = "/" + res
	case res != "" && (last == "." || last == ".."):
		res += "/"
	}
	return res
}

func collapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}

	var sb strings.Builder
	sb.Grow(len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && i > 0 && path[i-1] == '/' {
			continue
		}
		sb.WriteByte(path[i])
	}
	return sb.String()
}
