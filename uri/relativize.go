package uri

import (
	"strings"

	"braces.dev/errtrace"
)

// Relativize returns the shortest reference that resolves against the base to the target,
// so Resolve(base, Relativize(base, target)) equals to the target.
//
// The target is returned as is when the schemes differ, when the target has no authority
// while the base has one and when the target is already a relative-path reference.
// The target fragment is always kept.
func Relativize(base, target URI) (URI, error) {
	if target.scheme != "" &&
		(base.scheme != target.scheme || target.Authority() == "" && base.Authority() != "") {
		return target, nil
	}

	if target.IsRelativePathReference() {
		return target, nil
	}

	if auth := target.Authority(); auth != "" && base.Authority() != auth {
		return errtrace.Wrap2(target.WithScheme(""))
	}

	ref := URI{query: target.query, fragment: target.fragment}
	if base.path != target.path {
		return errtrace.Wrap2(ref.WithPath(relativePath(base, target)))
	}

	if base.query == target.query {
		ref.query = ""
		return ref, nil
	}

	// The empty path reference would inherit the base query on resolving.
	if target.query == "" {
		seg := target.path[strings.LastIndexByte(target.path, '/')+1:]
		if seg == "" {
			seg = "./"
		}
		return errtrace.Wrap2(ref.WithPath(seg))
	}

	return ref, nil
}

// Relativize is a shorthand for [Relativize] with u as the base.
func (u URI) Relativize(target URI) (URI, error) {
	return errtrace.Wrap2(Relativize(u, target))
}

func relativePath(base, target URI) string {
	var (
		srcSegs = strings.Split(base.path, "/")
		dstSegs = strings.Split(target.path, "/")
	)
	srcSegs = srcSegs[:len(srcSegs)-1]
	last := dstSegs[len(dstSegs)-1]
	dstSegs = dstSegs[:len(dstSegs)-1]

	var n int
	for n < len(srcSegs) && n < len(dstSegs) && srcSegs[n] == dstSegs[n] {
		n++
	}
	srcSegs, dstSegs = srcSegs[n:], dstSegs[n:]

	rel := strings.Repeat("../", len(srcSegs)) + strings.Join(append(dstSegs, last), "/")

	// The empty path and a colon in the first segment would change the meaning of
	// the reference, so both are prefixed with "./".
	if first, _, _ := strings.Cut(rel, "/"); rel == "" || strings.Contains(first, ":") {
		return "./" + rel
	}
	if rel[0] == '/' {
		// Resolving against the authority with the empty path adds "/" itself.
		if base.Authority() != "" && base.path == "" {
			return "." + rel
		}
		return "./" + rel
	}
	return rel
}
