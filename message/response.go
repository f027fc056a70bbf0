package message

import (
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/ioutil"
	"github.com/ghettovoice/httpkit/internal/util"
)

// Response is an immutable HTTP response.
type Response struct {
	base
	status int
	reason string
}

// NewResponse creates a new response with the default reason phrase of the status.
func NewResponse(status int, hdr Header, body []byte) (*Response, error) {
	res := &Response{
		base: base{
			proto:  DefaultProtocolVersion,
			header: hdr,
			body:   slices.Clone(body),
		},
	}
	return errtrace.Wrap2(res.WithStatus(status, ""))
}

func (res *Response) clone() *Response {
	res2 := *res
	return &res2
}

// StatusCode returns the response status code.
func (res *Response) StatusCode() int { return res.status }

// ReasonPhrase returns the response reason phrase.
func (res *Response) ReasonPhrase() string { return res.reason }

// WithStatus returns a copy of the response with the given status.
// The code must be within [100, 599].
// The empty reason is replaced by the standard one, see [http.StatusText].
func (res *Response) WithStatus(code int, reason string) (*Response, error) {
	if code < 100 || code > 599 {
		return nil, errtrace.Wrap(newErr(ErrInvalidStatus, "%d is not within [100, 599]", code))
	}
	if reason == "" {
		reason = http.StatusText(code)
	}
	res2 := res.clone()
	res2.status, res2.reason = code, reason
	return res2, nil
}

// WithProtocolVersion returns a copy of the response with the given HTTP version.
func (res *Response) WithProtocolVersion(v string) (*Response, error) {
	if err := checkProto(v); err != nil {
		return nil, errtrace.Wrap(err)
	}
	res2 := res.clone()
	res2.proto = v
	return res2, nil
}

// WithHeader returns a copy of the response where values of the header name are replaced.
func (res *Response) WithHeader(name string, vals ...string) (*Response, error) {
	hdr, err := res.header.With(name, vals...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	res2 := res.clone()
	res2.header = hdr
	return res2, nil
}

// WithAddedHeader returns a copy of the response with values appended to the header name.
func (res *Response) WithAddedHeader(name string, vals ...string) (*Response, error) {
	hdr, err := res.header.WithAdded(name, vals...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	res2 := res.clone()
	res2.header = hdr
	return res2, nil
}

// WithoutHeader returns a copy of the response without the header name.
func (res *Response) WithoutHeader(name string) *Response {
	res2 := res.clone()
	res2.header = res.header.Without(name)
	return res2
}

// WithBody returns a copy of the response with the given body.
func (res *Response) WithBody(body []byte) *Response {
	res2 := res.clone()
	res2.body = slices.Clone(body)
	return res2
}

// RenderTo writes the response in the HTTP/1.x wire format.
func (res *Response) RenderTo(w io.Writer) (num int, err error) {
	if res == nil {
		return 0, nil
	}
	return errtrace.Wrap2(renderMessage(w, res.renderStartLine, &res.base))
}

func (res *Response) renderStartLine(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint("HTTP/", res.proto, " ", strconv.Itoa(res.status))
	if res.reason != "" {
		cw.Fprint(" ", res.reason)
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns the status line.
func (res *Response) String() string {
	if res == nil {
		return "<nil>"
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	res.renderStartLine(sb) //nolint:errcheck
	return sb.String()
}

// LogValue implements [slog.LogValuer].
func (res *Response) LogValue() slog.Value {
	if res == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.Int("status", res.status),
		slog.String("reason", res.reason),
		slog.String("proto", res.proto),
		slog.Int("body_len", len(res.body)),
	)
}
