package grammar

// IsAlpha checks ALPHA rule.
func IsAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

// IsDigit checks DIGIT rule.
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsHexDigit checks HEXDIG rule (case-insensitive).
func IsHexDigit(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

// IsAlphanumChar checks alphanum rule.
func IsAlphanumChar(c byte) bool { return IsAlpha(c) || IsDigit(c) }

// IsUnreserved checks RFC 3986 unreserved rule: ALPHA / DIGIT / "-" / "." / "_" / "~".
func IsUnreserved(c byte) bool {
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return IsAlphanumChar(c)
}

// IsSubDelim checks RFC 3986 sub-delims rule: "!" / "$" / "&" / "'" / "(" / ")" / "*" / "+" / "," / ";" / "=".
func IsSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

// IsSchemeChar checks the tail characters of RFC 3986 scheme rule.
func IsSchemeChar(c byte) bool {
	return IsAlphanumChar(c) || c == '+' || c == '-' || c == '.'
}

// IsPChar checks RFC 3986 pchar rule without the pct-encoded alternative.
func IsPChar(c byte) bool {
	return IsUnreserved(c) || IsSubDelim(c) || c == ':' || c == '@'
}

// IsTokenChar checks RFC 7230 tchar rule.
func IsTokenChar(c byte) bool {
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return IsAlphanumChar(c)
}
