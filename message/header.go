package message

import (
	"io"
	"iter"
	"maps"
	"net/http"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/grammar"
	"github.com/ghettovoice/httpkit/internal/ioutil"
	"github.com/ghettovoice/httpkit/internal/util"
)

// Header is an immutable set of HTTP header fields.
//
// Names are case-insensitive and stored in the canonical form, see [http.CanonicalHeaderKey].
// The order of names is the order of their first appearance.
// The zero value is an empty header.
type Header struct {
	names []string
	vals  map[string][]string
}

// NewHeader builds a header from name-value pairs.
// A name may be repeated to add several values.
func NewHeader(kvs ...string) (Header, error) {
	if len(kvs)%2 != 0 {
		return Header{}, errtrace.Wrap(newErr(ErrInvalidHeaderValue, "missing value of %q", kvs[len(kvs)-1]))
	}

	var (
		h   Header
		err error
	)
	for i := 0; i < len(kvs); i += 2 {
		if h, err = h.WithAdded(kvs[i], kvs[i+1]); err != nil {
			return Header{}, errtrace.Wrap(err)
		}
	}
	return h, nil
}

// HeaderFromHTTP converts [http.Header] to [Header].
// Names are sorted since [http.Header] has no order.
func HeaderFromHTTP(hh http.Header) (Header, error) {
	var (
		h   Header
		err error
	)
	for _, name := range slices.Sorted(maps.Keys(hh)) {
		if len(hh[name]) == 0 {
			continue
		}
		if h, err = h.WithAdded(name, hh[name]...); err != nil {
			return Header{}, errtrace.Wrap(err)
		}
	}
	return h, nil
}

func checkHeader(name string, vals []string) (string, []string, error) {
	if !grammar.IsToken(name) {
		return "", nil, errtrace.Wrap(newErr(ErrInvalidHeaderName, "%q", name))
	}
	if len(vals) == 0 {
		return "", nil, errtrace.Wrap(newErr(ErrInvalidHeaderValue, "no values of %q", name))
	}

	out := make([]string, len(vals))
	for i, v := range vals {
		if strings.ContainsAny(v, "\r\n\x00") {
			return "", nil, errtrace.Wrap(newErr(ErrInvalidHeaderValue, "%q: %q", name, v))
		}
		out[i] = util.TrimSP(v)
	}
	return http.CanonicalHeaderKey(name), out, nil
}

func (h Header) clone() Header {
	h2 := Header{
		names: slices.Clone(h.names),
		vals:  maps.Clone(h.vals),
	}
	if h2.vals == nil {
		h2.vals = make(map[string][]string)
	}
	return h2
}

// With returns a copy of the header where values of the name are replaced.
func (h Header) With(name string, vals ...string) (Header, error) {
	key, vals, err := checkHeader(name, vals)
	if err != nil {
		return Header{}, errtrace.Wrap(err)
	}

	h2 := h.clone()
	if _, ok := h2.vals[key]; !ok {
		h2.names = append(h2.names, key)
	}
	h2.vals[key] = vals
	return h2, nil
}

// WithAdded returns a copy of the header with values appended to the existing ones.
func (h Header) WithAdded(name string, vals ...string) (Header, error) {
	key, vals, err := checkHeader(name, vals)
	if err != nil {
		return Header{}, errtrace.Wrap(err)
	}

	h2 := h.clone()
	if _, ok := h2.vals[key]; !ok {
		h2.names = append(h2.names, key)
	}
	h2.vals[key] = slices.Concat(h.vals[key], vals)
	return h2, nil
}

// withFirst replaces values of the name and moves it to the beginning.
// The name and the value must be valid.
func (h Header) withFirst(name, val string) Header {
	key := http.CanonicalHeaderKey(name)
	h2 := h.clone()
	h2.names = slices.Insert(slices.DeleteFunc(h2.names, func(n string) bool { return n == key }), 0, key)
	h2.vals[key] = []string{val}
	return h2
}

// Without returns a copy of the header without the name.
func (h Header) Without(name string) Header {
	key := http.CanonicalHeaderKey(name)
	if !h.Has(key) {
		return h
	}

	h2 := h.clone()
	h2.names = slices.DeleteFunc(h2.names, func(n string) bool { return n == key })
	delete(h2.vals, key)
	return h2
}

// Has reports whether the header has the name.
func (h Header) Has(name string) bool {
	_, ok := h.vals[http.CanonicalHeaderKey(name)]
	return ok
}

// Get returns the first value of the name or the empty string.
func (h Header) Get(name string) string {
	if vals := h.vals[http.CanonicalHeaderKey(name)]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Values returns all values of the name.
func (h Header) Values(name string) []string {
	return slices.Clone(h.vals[http.CanonicalHeaderKey(name)])
}

// Line returns values of the name joined with ", ".
func (h Header) Line(name string) string {
	return strings.Join(h.vals[http.CanonicalHeaderKey(name)], ", ")
}

// Names returns canonical names in order of their first appearance.
func (h Header) Names() []string { return slices.Clone(h.names) }

// Len returns the number of names.
func (h Header) Len() int { return len(h.names) }

// All iterates over names and their values in order.
func (h Header) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, n := range h.names {
			if !yield(n, slices.Clone(h.vals[n])) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the header.
func (h Header) Clone() Header {
	h2 := Header{names: slices.Clone(h.names)}
	if h.vals != nil {
		h2.vals = make(map[string][]string, len(h.vals))
		for k, v := range h.vals {
			h2.vals[k] = slices.Clone(v)
		}
	}
	return h2
}

// HTTP returns a copy of the header as [http.Header].
func (h Header) HTTP() http.Header {
	hh := make(http.Header, len(h.names))
	for k, v := range h.vals {
		hh[k] = slices.Clone(v)
	}
	return hh
}

// Equal reports whether headers have the same names and values.
// Order of names is not significant.
func (h Header) Equal(other Header) bool {
	return maps.EqualFunc(h.vals, other.vals, slices.Equal)
}

// RenderTo writes header fields one per line, each line terminated by CRLF.
func (h Header) RenderTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, n := range h.names {
		for _, v := range h.vals[n] {
			cw.Fprint(n, ": ", v, "\r\n")
		}
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns header fields as they are sent over the wire.
func (h Header) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	h.RenderTo(sb) //nolint:errcheck
	return sb.String()
}
