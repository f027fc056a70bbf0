// Package grammar provides the character classes of RFC 3986 and RFC 7230
// together with percent-encoding helpers used by the URI and message packages.
package grammar

// Error is a grammar error.
type Error string

func (e Error) Error() string { return string(e) }

// Grammar marks the error as a grammar error, see [errorutil.IsGrammarErr].
func (Error) Grammar() bool { return true }

// ErrMalformedInput is returned when input does not match the grammar.
const ErrMalformedInput Error = "malformed input"

// IsToken reports whether s is a non-empty RFC 7230 token.
func IsToken[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// IsScheme reports whether s matches the RFC 3986 scheme rule:
//
//	scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func IsScheme[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 || !IsAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsSchemeChar(s[i]) {
			return false
		}
	}
	return true
}
