package grammar

import (
	"bytes"

	"github.com/ghettovoice/httpkit/internal/constraints"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form "% HEXDIG HEXDIG" into the hex-decoded byte.
func Unescape[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if IsPercentEncoded(s, i) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape escapes s by replacing each char matched by shouldEscape callback to the hex form "% HEXDIG HEXDIG".
// Valid percent-encoded triples are kept as is, a lone "%" is escaped to "%25"
// unless shouldEscape explicitly allows it.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case IsPercentEncoded(s, i):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case shouldEscape(s[i]):
			b.WriteByte('%')
			b.WriteByte(upperhex[s[i]>>4])
			b.WriteByte(upperhex[s[i]&15])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// UpperPercent upper-cases hex digits of every percent-encoded triple in s.
func UpperPercent[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if IsPercentEncoded(s, i) {
			b.WriteByte('%')
			b.WriteByte(upper(s[i+1]))
			b.WriteByte(upper(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return T(b.Bytes())
}

// DecodeUnreserved replaces every percent-encoded triple that encodes
// an unreserved character with the character itself.
// Other triples are kept untouched.
func DecodeUnreserved[T constraints.Byteseq](s T) T {
	if len(s) == 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if IsPercentEncoded(s, i) {
			if c := unhex(s[i+1])<<4 | unhex(s[i+2]); IsUnreserved(c) {
				b.WriteByte(c)
			} else {
				b.WriteByte(s[i])
				b.WriteByte(s[i+1])
				b.WriteByte(s[i+2])
			}
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return T(b.Bytes())
}

// IsPercentEncoded reports whether s has a valid "% HEXDIG HEXDIG" triple at position i.
func IsPercentEncoded[T constraints.Byteseq](s T, i int) bool {
	return i+2 < len(s) && s[i] == '%' && IsHexDigit(s[i+1]) && IsHexDigit(s[i+2])
}

const upperhex = "0123456789ABCDEF"

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
