package uri

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/ioutil"
	"github.com/ghettovoice/httpkit/internal/util"
)

// URI is an immutable URI reference.
//
// The zero value is the empty reference.
// Components are stored in the escaped form, see [Parse].
type URI struct {
	scheme   string
	userInfo string
	host     string
	port     uint16
	hasPort  bool
	path     string
	query    string
	fragment string
}

// Scheme returns the lower-cased scheme.
func (u URI) Scheme() string { return u.scheme }

// UserInfo returns the escaped user info in the form "user[:password]".
func (u URI) UserInfo() string { return u.userInfo }

// Host returns the lower-cased host.
func (u URI) Host() string { return u.host }

// Port returns the port and whether it is set.
// The default port of the scheme is never set.
func (u URI) Port() (uint16, bool) { return u.port, u.hasPort }

// Path returns the escaped path.
func (u URI) Path() string { return u.path }

// Query returns the escaped query without leading "?".
func (u URI) Query() string { return u.query }

// Fragment returns the escaped fragment without leading "#".
func (u URI) Fragment() string { return u.fragment }

// Authority returns the authority in the form "[userinfo@]host[:port]".
func (u URI) Authority() string {
	if u.userInfo == "" && !u.hasPort {
		return u.host
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	if u.userInfo != "" {
		sb.WriteString(u.userInfo)
		sb.WriteByte('@')
	}
	sb.WriteString(u.host)
	if u.hasPort {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(u.port), 10))
	}
	return sb.String()
}

// HostPort returns the host followed by ":port" when the port is set.
// It is suitable as a value of the Host request header.
func (u URI) HostPort() string {
	if !u.hasPort {
		return u.host
	}
	return u.host + ":" + strconv.FormatUint(uint64(u.port), 10)
}

// RequestTarget returns the origin-form request target: the path followed by "?query".
// The empty path is rendered as "/".
func (u URI) RequestTarget() string {
	target := u.path
	if target == "" {
		target = "/"
	}
	if u.query != "" {
		target += "?" + u.query
	}
	return target
}

// IsZero reports whether the URI is the empty reference.
func (u URI) IsZero() bool { return u == URI{} }

// RenderTo writes the URI to the provided writer.
func (u URI) RenderTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if u.scheme != "" {
		cw.Fprint(u.scheme, ":")
	}
	// file URIs keep "//" even without authority, e.g. "file:///etc/hosts".
	if auth := u.Authority(); auth != "" || u.scheme == "file" {
		cw.Fprint("//", auth)
	}
	cw.Fprint(u.path)
	if u.query != "" {
		cw.Fprint("?", u.query)
	}
	if u.fragment != "" {
		cw.Fprint("#", u.fragment)
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns the string representation of the URI.
func (u URI) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// Redacted is like [URI.String] but replaces the password with "xxxxx".
func (u URI) Redacted() string {
	if user, _, ok := strings.Cut(u.userInfo, ":"); ok {
		u.userInfo = user + ":xxxxx"
	}
	return u.String()
}

// LogValue implements [slog.LogValuer].
func (u URI) LogValue() slog.Value { return slog.StringValue(u.Redacted()) }

// Format implements fmt.Formatter for custom formatting of the URI.
func (u URI) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			u.RenderTo(f) //nolint:errcheck
			return
		}
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	case 'v':
		if !f.Flag('#') && !f.Flag('+') {
			fmt.Fprint(f, u.String())
			return
		}
		fallthrough
	default:
		type hideMethods URI
		type URI hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), URI(u))
		return
	}
}

// Equal compares this URI with another one component by component.
// Components are compared in the canonical form, so "HTTP://Example.COM:80"
// is equal to "http://example.com".
func (u URI) Equal(val any) bool {
	switch v := val.(type) {
	case URI:
		return u == v
	case *URI:
		return v != nil && u == *v
	default:
		return false
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *URI) UnmarshalText(text []byte) error {
	u1, err := Parse(text)
	if err != nil {
		*u = URI{}
		return errtrace.Wrap(err)
	}
	*u = u1
	return nil
}

// IsAbsolute reports whether the URI has a scheme, see RFC 3986 Section 4.3.
func (u URI) IsAbsolute() bool { return u.scheme != "" }

// IsNetworkPathReference reports whether the URI is a relative reference
// that begins with "//", see RFC 3986 Section 4.2.
func (u URI) IsNetworkPathReference() bool { return u.scheme == "" && u.Authority() != "" }

// IsAbsolutePathReference reports whether the URI is a relative reference
// that begins with a single "/", see RFC 3986 Section 4.2.
func (u URI) IsAbsolutePathReference() bool {
	return u.scheme == "" && u.Authority() == "" && strings.HasPrefix(u.path, "/")
}

// IsRelativePathReference reports whether the URI is a relative reference
// that does not begin with "/", see RFC 3986 Section 4.2.
func (u URI) IsRelativePathReference() bool {
	return u.scheme == "" && u.Authority() == "" && !strings.HasPrefix(u.path, "/")
}

// IsSameDocumentReference reports whether the URI refers to the current document:
// it is empty or consists of a fragment only, see RFC 3986 Section 4.4.
func (u URI) IsSameDocumentReference() bool {
	return u.scheme == "" && u.Authority() == "" && u.path == "" && u.query == ""
}

// IsSameDocumentAs reports whether the URI resolved against the base
// refers to the same document as the base, ignoring fragments.
func (u URI) IsSameDocumentAs(base URI) bool {
	r, err := Resolve(base, u)
	if err != nil {
		return false
	}
	return r.scheme == base.scheme &&
		r.Authority() == base.Authority() &&
		r.path == base.path &&
		r.query == base.query
}
