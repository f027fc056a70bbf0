package uri

import (
	"math"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/grammar"
	"github.com/ghettovoice/httpkit/internal/util"
)

// shouldEscapeUserInfoChar reports whether the given byte of a user name or password needs escaping.
func shouldEscapeUserInfoChar(c byte) bool {
	return !grammar.IsUnreserved(c) && !grammar.IsSubDelim(c)
}

// shouldEscapePathChar reports whether the given byte of a path needs escaping.
func shouldEscapePathChar(c byte) bool { return !grammar.IsPChar(c) && c != '/' }

// shouldEscapeQueryChar reports whether the given byte of a query or fragment needs escaping.
func shouldEscapeQueryChar(c byte) bool { return !grammar.IsPChar(c) && c != '/' && c != '?' }

func filterScheme(s string) string { return util.LCase(s) }

func filterUserInfoComponent(s string) string { return grammar.Escape(s, shouldEscapeUserInfoChar) }

// filterUserInfo escapes the user and the password parts separately,
// the first colon is the only one kept unescaped.
func filterUserInfo(s string) string {
	user, passwd, ok := strings.Cut(s, ":")
	if !ok {
		return filterUserInfoComponent(user)
	}
	return filterUserInfoComponent(user) + ":" + filterUserInfoComponent(passwd)
}

func filterHost(s string) string { return util.LCase(s) }

func filterPort(p int) (uint16, error) {
	if p < 0 || p > math.MaxUint16 {
		return 0, errtrace.Wrap(newPortRangeErr(p))
	}
	return uint16(p), nil
}

func filterPath(s string) string { return grammar.Escape(s, shouldEscapePathChar) }

func filterQueryOrFragment(s string) string { return grammar.Escape(s, shouldEscapeQueryChar) }
