package uri

import "braces.dev/errtrace"

// WithScheme returns a copy of the URI with the given scheme.
// The scheme is lower-cased, the port is dropped if it becomes the default one.
func (u URI) WithScheme(scheme string) (URI, error) {
	scheme = filterScheme(scheme)
	if u.scheme == scheme {
		return u, nil
	}

	u.scheme = scheme
	u.removeDefaultPort()
	return errtrace.Wrap2(u.validated())
}

// WithUserInfo returns a copy of the URI with the given user name and without password.
// The empty user removes the user info.
func (u URI) WithUserInfo(user string) (URI, error) {
	return errtrace.Wrap2(u.withUserInfo(filterUserInfoComponent(user)))
}

// WithUserPassword returns a copy of the URI with the given user name and password.
func (u URI) WithUserPassword(user, passwd string) (URI, error) {
	return errtrace.Wrap2(u.withUserInfo(filterUserInfoComponent(user) + ":" + filterUserInfoComponent(passwd)))
}

func (u URI) withUserInfo(info string) (URI, error) {
	if u.userInfo == info {
		return u, nil
	}

	u.userInfo = info
	return errtrace.Wrap2(u.validated())
}

// WithHost returns a copy of the URI with the given host.
// The host is lower-cased.
func (u URI) WithHost(host string) (URI, error) {
	host = filterHost(host)
	if u.host == host {
		return u, nil
	}

	u.host = host
	return errtrace.Wrap2(u.validated())
}

// WithPort returns a copy of the URI with the given port.
// The port must be within [0, 65535], otherwise [ErrPortRange] is returned.
// The default port of the scheme is not kept.
func (u URI) WithPort(port int) (URI, error) {
	p, err := filterPort(port)
	if err != nil {
		return URI{}, errtrace.Wrap(err)
	}
	if u.hasPort && u.port == p {
		return u, nil
	}

	u.port, u.hasPort = p, true
	u.removeDefaultPort()
	return errtrace.Wrap2(u.validated())
}

// WithoutPort returns a copy of the URI without port.
func (u URI) WithoutPort() (URI, error) {
	if !u.hasPort {
		return u, nil
	}

	u.port, u.hasPort = 0, false
	return errtrace.Wrap2(u.validated())
}

// WithPath returns a copy of the URI with the given path.
func (u URI) WithPath(path string) (URI, error) {
	path = filterPath(path)
	if u.path == path {
		return u, nil
	}

	u.path = path
	return errtrace.Wrap2(u.validated())
}

// WithQuery returns a copy of the URI with the given query.
// The query must not include leading "?".
func (u URI) WithQuery(query string) URI {
	u.query = filterQueryOrFragment(query)
	return u
}

// WithFragment returns a copy of the URI with the given fragment.
// The fragment must not include leading "#".
func (u URI) WithFragment(fragment string) URI {
	u.fragment = filterQueryOrFragment(fragment)
	return u
}

func (u URI) validated() (URI, error) {
	if err := u.validate(); err != nil {
		return URI{}, errtrace.Wrap(err)
	}
	return u, nil
}
