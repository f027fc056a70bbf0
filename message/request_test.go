package message_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httpkit/message"
	"github.com/ghettovoice/httpkit/uri"
)

func TestNewRequest(t *testing.T) {
	t.Parallel()

	hdr, _ := message.NewHeader("Accept", "*/*")

	cases := []struct {
		name     string
		method   string
		uri      string
		hdr      message.Header
		wantHost string
		wantErr  error
	}{
		{"host from URI", "GET", "http://example.com:8080/a?b", hdr, "example.com:8080", nil},
		{"default port", "GET", "http://example.com:80/", hdr, "example.com", nil},
		{"relative URI", "GET", "/a", hdr, "", nil},
		{"invalid method", "GE T", "http://example.com", hdr, "", message.ErrInvalidMethod},
		{"empty method", "", "http://example.com", hdr, "", message.ErrInvalidMethod},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			req, err := message.NewRequest(c.method, uri.MustParse(c.uri), c.hdr, nil)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("message.NewRequest() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if err != nil {
				return
			}
			if got := req.Header().Get("Host"); got != c.wantHost {
				t.Errorf("Host = %q, want %q", got, c.wantHost)
			}
			if c.wantHost != "" && req.Header().Names()[0] != "Host" {
				t.Errorf("Host is not the first header: %q", req.Header().Names())
			}
		})
	}
}

func TestRequest_WithURI(t *testing.T) {
	t.Parallel()

	req, err := message.NewRequest("GET", uri.MustParse("http://example.com/"), message.Header{}, nil)
	if err != nil {
		t.Fatalf("message.NewRequest() error = %v, want nil", err)
	}

	cases := []struct {
		name         string
		req          *message.Request
		uri          string
		preserveHost bool
		wantHost     string
	}{
		{"update", req, "http://other.com/x", false, "other.com"},
		{"preserve", req, "http://other.com/x", true, "example.com"},
		{"preserve missing", req.WithoutHeader("Host"), "http://other.com:8080/x", true, "other.com:8080"},
		{"URI without host", req, "/x", false, "example.com"},
	}

	for _, c := range cases {
		got := c.req.WithURI(uri.MustParse(c.uri), c.preserveHost)
		if h := got.Header().Get("Host"); h != c.wantHost {
			t.Errorf("%s: Host = %q, want %q", c.name, h, c.wantHost)
		}
		if got.URI().String() != c.uri {
			t.Errorf("%s: URI = %q, want %q", c.name, got.URI(), c.uri)
		}
	}

	if got := req.URI().String(); got != "http://example.com/" {
		t.Errorf("original URI changed to %q", got)
	}
}

func TestRequest_RenderTo(t *testing.T) {
	t.Parallel()

	req, err := message.NewRequest("POST", uri.MustParse("https://example.com/api?x=1"), message.Header{}, []byte("{}"))
	if err != nil {
		t.Fatalf("message.NewRequest() error = %v, want nil", err)
	}
	req, err = req.WithHeader("Content-Type", "application/json")
	if err != nil {
		t.Fatalf("req.WithHeader() error = %v, want nil", err)
	}

	var sb strings.Builder
	n, err := req.RenderTo(&sb)
	if err != nil {
		t.Fatalf("req.RenderTo() error = %v, want nil", err)
	}
	want := "POST /api?x=1 HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Type: application/json\r\n" +
		"\r\n" +
		"{}"
	if got := sb.String(); got != want {
		t.Errorf("req.RenderTo() wrote %q, want %q", got, want)
	}
	if n != len(want) {
		t.Errorf("req.RenderTo() = %d, want %d", n, len(want))
	}
	if got, want := req.String(), "POST /api?x=1 HTTP/1.1"; got != want {
		t.Errorf("req.String() = %q, want %q", got, want)
	}
}

func TestRequest_With(t *testing.T) {
	t.Parallel()

	req, _ := message.NewRequest("GET", uri.MustParse("http://example.com/a"), message.Header{}, []byte("body"))

	req2, err := req.WithRequestTarget("*")
	if err != nil {
		t.Fatalf("req.WithRequestTarget() error = %v, want nil", err)
	}
	if got := req2.RequestTarget(); got != "*" {
		t.Errorf("req2.RequestTarget() = %q, want %q", got, "*")
	}
	if got := req.RequestTarget(); got != "/a" {
		t.Errorf("req.RequestTarget() = %q, want %q", got, "/a")
	}
	if _, err := req.WithRequestTarget("/a b"); !cmp.Equal(err, error(message.ErrInvalidRequestTarget), cmpopts.EquateErrors()) {
		t.Errorf("req.WithRequestTarget(\"/a b\") error = %v, want %v", err, message.ErrInvalidRequestTarget)
	}

	req3, err := req.WithMethod("OPTIONS")
	if err != nil || req3.Method() != "OPTIONS" || req.Method() != "GET" {
		t.Errorf("req.WithMethod() = (%v, %v), original method %q", req3, err, req.Method())
	}

	for _, v := range []string{"1.0", "2", "3"} {
		if _, err := req.WithProtocolVersion(v); err != nil {
			t.Errorf("req.WithProtocolVersion(%q) error = %v, want nil", v, err)
		}
	}
	for _, v := range []string{"", "1.", "x", "1.1.1"} {
		if _, err := req.WithProtocolVersion(v); !cmp.Equal(err, error(message.ErrInvalidProtocol), cmpopts.EquateErrors()) {
			t.Errorf("req.WithProtocolVersion(%q) error = %v, want %v", v, err, message.ErrInvalidProtocol)
		}
	}

	body := req.Body()
	body[0] = 'B'
	if got := string(req.Body()); got != "body" {
		t.Errorf("req.Body() = %q after changing a returned slice", got)
	}
	if got := string(req.WithBody(nil).Body()); got != "" {
		t.Errorf("req.WithBody(nil).Body() = %q, want empty", got)
	}
}
