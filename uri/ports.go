package uri

// DefaultPort returns the registered default port of the scheme.
// The scheme is expected to be lower-cased.
func DefaultPort(scheme string) (uint16, bool) {
	switch scheme {
	case "http":
		return 80, true
	case "https":
		return 443, true
	case "ftp":
		return 21, true
	case "gopher":
		return 70, true
	case "nntp", "news":
		return 119, true
	case "telnet", "tn3270":
		return 23, true
	case "imap":
		return 143, true
	case "pop":
		return 110, true
	case "ldap":
		return 389, true
	default:
		return 0, false
	}
}

// IsDefaultPort reports whether the URI has no port or the port equals to the default port of the scheme.
func (u URI) IsDefaultPort() bool {
	if !u.hasPort {
		return true
	}
	p, ok := DefaultPort(u.scheme)
	return ok && p == u.port
}

func (u *URI) removeDefaultPort() {
	if u.hasPort && u.IsDefaultPort() {
		u.port, u.hasPort = 0, false
	}
}
