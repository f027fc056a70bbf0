package uri

import (
	"strings"

	"braces.dev/errtrace"
)

// Resolve resolves the reference against the base URI according to RFC 3986 Section 5.2.
//
// The empty reference returns the base as is.
func Resolve(base, ref URI) (URI, error) {
	if ref.IsZero() {
		return base, nil
	}

	if ref.scheme != "" {
		return errtrace.Wrap2(ref.WithPath(RemoveDotSegmentsFromPath(ref.path)))
	}

	res := URI{
		scheme:   base.scheme,
		fragment: ref.fragment,
	}
	switch {
	case ref.Authority() != "":
		res.setAuthority(ref)
		res.path = RemoveDotSegmentsFromPath(ref.path)
		res.query = ref.query
	case ref.path == "":
		res.setAuthority(base)
		res.path = base.path
		if ref.query != "" {
			res.query = ref.query
		} else {
			res.query = base.query
		}
	default:
		res.setAuthority(base)
		res.path = RemoveDotSegmentsFromPath(mergePaths(base, ref.path))
		res.query = ref.query
	}
	res.removeDefaultPort()

	return errtrace.Wrap2(res.validated())
}

// ResolveReference is a shorthand for [Resolve] with u as the base.
func (u URI) ResolveReference(ref URI) (URI, error) {
	return errtrace.Wrap2(Resolve(u, ref))
}

// mergePaths merges a relative-path reference with the path of the base,
// see RFC 3986 Section 5.2.3.
func mergePaths(base URI, path string) string {
	if path[0] == '/' {
		return path
	}
	if base.Authority() != "" && base.path == "" {
		return "/" + path
	}
	if i := strings.LastIndexByte(base.path, '/'); i >= 0 {
		return base.path[:i+1] + path
	}
	return path
}

func (u *URI) setAuthority(from URI) {
	u.userInfo = from.userInfo
	u.host = from.host
	u.port, u.hasPort = from.port, from.hasPort
}
