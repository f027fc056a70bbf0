package message

import (
	"io"
	"log/slog"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/grammar"
	"github.com/ghettovoice/httpkit/internal/ioutil"
	"github.com/ghettovoice/httpkit/internal/util"
	"github.com/ghettovoice/httpkit/uri"
)

// Request is an immutable HTTP request.
type Request struct {
	base
	method string
	uri    uri.URI
	target string
}

// NewRequest creates a new request.
// The Host header is derived from the URI unless the header already has it.
func NewRequest(method string, u uri.URI, hdr Header, body []byte) (*Request, error) {
	if !grammar.IsToken(method) {
		return nil, errtrace.Wrap(newErr(ErrInvalidMethod, "%q", method))
	}

	req := &Request{
		base: base{
			proto:  DefaultProtocolVersion,
			header: hdr,
			body:   slices.Clone(body),
		},
		method: method,
		uri:    u,
	}
	if !hdr.Has("Host") {
		req.updateHost()
	}
	return req, nil
}

// updateHost sets Host to the first position, see RFC 7230 Section 5.4.
func (req *Request) updateHost() {
	if host := req.uri.HostPort(); host != "" {
		req.header = req.header.withFirst("Host", host)
	}
}

func (req *Request) clone() *Request {
	req2 := *req
	return &req2
}

// Method returns the request method.
func (req *Request) Method() string { return req.method }

// URI returns the request URI.
func (req *Request) URI() uri.URI { return req.uri }

// RequestTarget returns the request target set by [Request.WithRequestTarget]
// or the origin-form target of the URI.
func (req *Request) RequestTarget() string {
	if req.target != "" {
		return req.target
	}
	return req.uri.RequestTarget()
}

// WithMethod returns a copy of the request with the given method.
// Methods are case-sensitive.
func (req *Request) WithMethod(method string) (*Request, error) {
	if !grammar.IsToken(method) {
		return nil, errtrace.Wrap(newErr(ErrInvalidMethod, "%q", method))
	}
	req2 := req.clone()
	req2.method = method
	return req2, nil
}

// WithURI returns a copy of the request with the given URI.
//
// The Host header is updated from the URI when it has a host.
// With preserveHost the Host header is updated only if the request has no Host header.
func (req *Request) WithURI(u uri.URI, preserveHost bool) *Request {
	req2 := req.clone()
	req2.uri = u
	if !preserveHost || req2.header.Get("Host") == "" {
		req2.updateHost()
	}
	return req2
}

// WithRequestTarget returns a copy of the request with the explicit request target,
// e.g. "*" or the absolute-form "http://example.com/".
func (req *Request) WithRequestTarget(target string) (*Request, error) {
	if strings.ContainsAny(target, " \t\r\n") {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequestTarget, "%q", target))
	}
	req2 := req.clone()
	req2.target = target
	return req2, nil
}

// WithProtocolVersion returns a copy of the request with the given HTTP version.
func (req *Request) WithProtocolVersion(v string) (*Request, error) {
	if err := checkProto(v); err != nil {
		return nil, errtrace.Wrap(err)
	}
	req2 := req.clone()
	req2.proto = v
	return req2, nil
}

// WithHeader returns a copy of the request where values of the header name are replaced.
func (req *Request) WithHeader(name string, vals ...string) (*Request, error) {
	hdr, err := req.header.With(name, vals...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	req2 := req.clone()
	req2.header = hdr
	return req2, nil
}

// WithAddedHeader returns a copy of the request with values appended to the header name.
func (req *Request) WithAddedHeader(name string, vals ...string) (*Request, error) {
	hdr, err := req.header.WithAdded(name, vals...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	req2 := req.clone()
	req2.header = hdr
	return req2, nil
}

// WithoutHeader returns a copy of the request without the header name.
func (req *Request) WithoutHeader(name string) *Request {
	req2 := req.clone()
	req2.header = req.header.Without(name)
	return req2
}

// WithBody returns a copy of the request with the given body.
func (req *Request) WithBody(body []byte) *Request {
	req2 := req.clone()
	req2.body = slices.Clone(body)
	return req2
}

// RenderTo writes the request in the HTTP/1.x wire format.
func (req *Request) RenderTo(w io.Writer) (num int, err error) {
	if req == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderMessage(w, req.renderStartLine, &req.base))
}

func (req *Request) renderStartLine(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(req.method, " ", req.RequestTarget(), " HTTP/", req.proto)
	return errtrace.Wrap2(cw.Result())
}

// String returns the request line.
func (req *Request) String() string {
	if req == nil {
		return "<nil>"
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	req.renderStartLine(sb) //nolint:errcheck
	return sb.String()
}

// LogValue implements [slog.LogValuer].
func (req *Request) LogValue() slog.Value {
	if req == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("method", req.method),
		slog.Any("uri", req.uri),
		slog.String("proto", req.proto),
		slog.Int("body_len", len(req.body)),
	)
}
