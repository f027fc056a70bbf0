package uri

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/grammar"
)

// Parts holds raw URI components, see [FromParts].
type Parts struct {
	Scheme string
	// UserInfo is a user name optionally followed by ":" and a password.
	UserInfo string
	Host     string
	Port     int
	HasPort  bool
	Path     string
	Query    string
	Fragment string
}

// Parse parses a URI reference from the given input s (string or []byte).
//
// The input is split into components according to RFC 3986 Appendix B,
// then every component is escaped with the minimal percent-encoding allowed for it.
// An empty input produces the empty URI reference.
//
// Input that can not be split returns [*ParseError].
// Input that splits into a structurally invalid URI returns [StructuralError].
func Parse[T ~string | ~[]byte](s T) (URI, error) {
	if len(s) == 0 {
		return URI{}, nil
	}

	p, err := split(string(s))
	if err != nil {
		return URI{}, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(FromParts(p))
}

// MustParse is like [Parse] but panics on error.
func MustParse[T ~string | ~[]byte](s T) URI {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// FromParts builds a URI from raw components.
// Components are filtered the same way as [Parse] does it.
func FromParts(p Parts) (URI, error) {
	u := URI{
		scheme:   filterScheme(p.Scheme),
		userInfo: filterUserInfo(p.UserInfo),
		host:     filterHost(p.Host),
		path:     filterPath(p.Path),
		query:    filterQueryOrFragment(p.Query),
		fragment: filterQueryOrFragment(p.Fragment),
	}
	if p.HasPort {
		port, err := filterPort(p.Port)
		if err != nil {
			return URI{}, errtrace.Wrap(err)
		}
		u.port, u.hasPort = port, true
	}
	u.removeDefaultPort()

	if err := u.validate(); err != nil {
		return URI{}, errtrace.Wrap(err)
	}
	return u, nil
}

// Parts returns components of the URI in the escaped form.
func (u URI) Parts() Parts {
	return Parts{
		Scheme:   u.scheme,
		UserInfo: u.userInfo,
		Host:     u.host,
		Port:     int(u.port),
		HasPort:  u.hasPort,
		Path:     u.path,
		Query:    u.query,
		Fragment: u.fragment,
	}
}

// split splits s with the regular expression of RFC 3986 Appendix B:
//
//	^(([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?
func split(s string) (Parts, error) {
	var p Parts

	rest := s
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, p.Fragment = rest[:i], rest[i+1:]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, p.Query = rest[:i], rest[i+1:]
	}

	if i := strings.IndexAny(rest, ":/"); i >= 0 && rest[i] == ':' {
		if !grammar.IsScheme(rest[:i]) {
			return Parts{}, errtrace.Wrap(newParseErr(s, "invalid scheme %q", rest[:i]))
		}
		p.Scheme, rest = rest[:i], rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		i := strings.IndexByte(rest, '/')
		if i < 0 {
			i = len(rest)
		}
		if err := splitAuthority(s, rest[:i], &p); err != nil {
			return Parts{}, errtrace.Wrap(err)
		}
		rest = rest[i:]
	}

	p.Path = rest
	return p, nil
}

func splitAuthority(input, auth string, p *Parts) error {
	if auth == "" {
		return nil
	}

	hostport := auth
	if i := strings.LastIndexByte(auth, '@'); i >= 0 {
		p.UserInfo, hostport = auth[:i], auth[i+1:]
	}

	var (
		port    string
		hasPort bool
	)
	if strings.HasPrefix(hostport, "[") {
		i := strings.IndexByte(hostport, ']')
		if i < 0 {
			return errtrace.Wrap(newParseErr(input, "missing ']' in host %q", hostport))
		}
		if !isIPLiteral(hostport[1:i]) {
			return errtrace.Wrap(newParseErr(input, "invalid IP literal %q", hostport[:i+1]))
		}
		p.Host = hostport[:i+1]
		if tail := hostport[i+1:]; tail != "" {
			if tail[0] != ':' {
				return errtrace.Wrap(newParseErr(input, "unexpected %q after IP literal", tail))
			}
			port, hasPort = tail[1:], true
		}
	} else {
		if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
			hostport, port, hasPort = hostport[:i], hostport[i+1:], true
		}
		for i := 0; i < len(hostport); i++ {
			if !isRegNameChar(hostport[i]) {
				return errtrace.Wrap(newParseErr(input, "invalid character %q in host", hostport[i]))
			}
		}
		p.Host = hostport
	}

	if p.Host == "" && (hasPort || strings.Contains(auth, "@")) {
		return errtrace.Wrap(newParseErr(input, "empty host"))
	}

	if port == "" {
		return nil
	}
	for i := 0; i < len(port); i++ {
		if !grammar.IsDigit(port[i]) {
			return errtrace.Wrap(newParseErr(input, "invalid port %q", port))
		}
	}
	n, err := strconv.Atoi(port)
	if err != nil || n > 0xffff {
		return errtrace.Wrap(newParseErr(input, newPortRangeErr(port)))
	}
	p.Port, p.HasPort = n, true
	return nil
}

func isRegNameChar(c byte) bool {
	return grammar.IsUnreserved(c) || grammar.IsSubDelim(c) || c == '%' || c >= 0x80
}

func isIPLiteral(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; !grammar.IsUnreserved(c) && !grammar.IsSubDelim(c) && c != ':' {
			return false
		}
	}
	return true
}
