package uri

import (
	"strings"

	"braces.dev/errtrace"
)

// validate checks the rules between the authority components and the path.
func (u *URI) validate() error {
	if u.host == "" && (u.userInfo != "" || u.hasPort) {
		return errtrace.Wrap(ErrEmptyHost)
	}
	if u.Authority() == "" {
		if strings.HasPrefix(u.path, "//") {
			return errtrace.Wrap(ErrDoubleSlashPath)
		}
		if u.scheme == "" {
			if seg, _, _ := strings.Cut(u.path, "/"); strings.Contains(seg, ":") {
				return errtrace.Wrap(ErrColonInFirstSegment)
			}
		}
		return nil
	}

	if u.path != "" && u.path[0] != '/' {
		return errtrace.Wrap(ErrRelativePathWithAuthority)
	}
	return nil
}
