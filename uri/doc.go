// Package uri implements an immutable URI reference type with the component algebra
// of RFC 3986: parsing, percent-encoding, normalization, reference resolution and
// its inverse, relativization.
//
// # Parsing
//
// [Parse] splits a URI reference into scheme, user info, host, port, path, query and fragment
// and stores every component in the minimally escaped form:
//
//	u, err := uri.Parse("HTTP://User@Example.COM:80/a b?q=1#top")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(u) // http://User@example.com/a%20b?q=1#top
//
// Scheme and host are lower-cased, the default port of the scheme is dropped,
// characters not allowed in a component are percent-encoded while valid percent-encoded
// triples are kept as is. [FromParts] builds the same value from raw components.
//
// # Immutability
//
// A [URI] is a value type. Methods With* return a modified copy and never change the receiver,
// so a URI can be shared between goroutines without synchronization.
// Mutators that may break the relation between the authority and the path return
// a [StructuralError]:
//
//	u, _ := uri.Parse("http://example.com/x")
//	_, err := u.WithPath("x") // ErrRelativePathWithAuthority
//
// # Normalization
//
// [URI.Normalize] applies a set of [NormalizeFlags] in a fixed order.
// [PreservingNormalizations] contains all normalizations that keep the semantics of the URI.
//
// # Resolution
//
// [Resolve] combines a base URI with a reference as described in RFC 3986 Section 5.2,
// [Relativize] does the reverse and returns the shortest reference to the target:
//
//	base := uri.MustParse("https://example.com/a/b")
//	abs, _ := uri.Resolve(base, uri.MustParse("../c?q=1")) // https://example.com/c?q=1
//	rel, _ := uri.Relativize(base, abs)                    // ../c?q=1
package uri
