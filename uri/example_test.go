package uri_test

import (
	"errors"
	"fmt"

	"github.com/ghettovoice/httpkit/uri"
)

func ExampleParse() {
	u, err := uri.Parse("HTTP://User@Example.COM:80/a b?q#f")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(u)
	fmt.Println(u.Scheme(), u.Host(), u.Path(), u.RequestTarget())
	// Output:
	// http://User@example.com/a%20b?q#f
	// http example.com /a%20b /a%20b?q
}

func ExampleParse_error() {
	_, err := uri.Parse("http://example.com:99999")
	fmt.Println(errors.Is(err, uri.ErrPortRange))
	// Output:
	// true
}

func ExampleURI_Normalize() {
	u := uri.MustParse("https://www.example.com/a/../b/./c?z=1&a=2")

	n, _ := u.Normalize(uri.RemoveDotSegments)
	fmt.Println(n)

	n, _ = u.Normalize(uri.RemoveDotSegments | uri.SortQueryParameters)
	fmt.Println(n)
	// Output:
	// https://www.example.com/b/c?z=1&a=2
	// https://www.example.com/b/c?a=2&z=1
}

func ExampleResolve() {
	u, _ := uri.Resolve(uri.MustParse("https://example.com/a/b"), uri.MustParse("../c?q=1"))
	fmt.Println(u)
	// Output:
	// https://example.com/c?q=1
}

func ExampleRelativize() {
	u, _ := uri.Relativize(uri.MustParse("https://example.com/a/b"), uri.MustParse("https://example.com/a/c"))
	fmt.Println(u)
	// Output:
	// c
}

func ExampleURI_WithPort() {
	u, _ := uri.MustParse("http://example.com").WithPort(80)
	fmt.Println(u)
	u, _ = u.WithPort(8080)
	fmt.Println(u)
	// Output:
	// http://example.com
	// http://example.com:8080
}

func ExampleURI_WithQueryParam() {
	u := uri.MustParse("https://example.com/search?q=go&page=2")
	fmt.Println(u.WithQueryParam("page", "3"))
	// Output:
	// https://example.com/search?q=go&page=3
}
