package client_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/httpkit/client"
	"github.com/ghettovoice/httpkit/internal/log"
	"github.com/ghettovoice/httpkit/message"
	"github.com/ghettovoice/httpkit/uri"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newClient(t *testing.T, opts *client.Options) *client.Client {
	t.Helper()

	c := client.New(opts)
	t.Cleanup(c.CloseIdleConnections)
	return c
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Target", r.URL.RequestURI())
		w.Header().Set("X-Host", r.Host)
		w.Header().Set("X-Agent", r.Header.Get("User-Agent"))
		w.Header().Set("X-Custom", r.Header.Get("X-Custom"))
		w.WriteHeader(http.StatusCreated)
		w.Write(body) //nolint:errcheck
	}))
	defer srv.Close()

	c := newClient(t, &client.Options{UserAgent: "httpkit-test", Logger: log.Noop})

	hdr, _ := message.NewHeader("X-Custom", "a b")
	req, err := message.NewRequest(http.MethodPut, uri.MustParse(srv.URL+"/a b?q=1"), hdr, []byte("payload"))
	if err != nil {
		t.Fatalf("message.NewRequest() error = %v, want nil", err)
	}

	res, err := c.Send(t.Context(), req)
	if err != nil {
		t.Fatalf("c.Send() error = %v, want nil", err)
	}

	if got, want := res.StatusCode(), http.StatusCreated; got != want {
		t.Errorf("res.StatusCode() = %d, want %d", got, want)
	}
	if got, want := res.ReasonPhrase(), "Created"; got != want {
		t.Errorf("res.ReasonPhrase() = %q, want %q", got, want)
	}
	if got, want := res.ProtocolVersion(), "1.1"; got != want {
		t.Errorf("res.ProtocolVersion() = %q, want %q", got, want)
	}
	if got, want := string(res.Body()), "payload"; got != want {
		t.Errorf("res.Body() = %q, want %q", got, want)
	}

	want := map[string]string{
		"X-Method": http.MethodPut,
		"X-Target": "/a%20b?q=1",
		"X-Host":   strings.TrimPrefix(srv.URL, "http://"),
		"X-Agent":  "httpkit-test",
		"X-Custom": "a b",
	}
	got := make(map[string]string, len(want))
	for name := range want {
		got[name] = res.Header().Get(name)
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("echoed request mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestClient_Get_BaseURI(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.RequestURI()) //nolint:errcheck
	}))
	defer srv.Close()

	c := newClient(t, &client.Options{BaseURI: uri.MustParse(srv.URL + "/api/v1/")})

	cases := []struct {
		ref, want string
	}{
		{"items?x=1", "/api/v1/items?x=1"},
		{"../v2/items", "/api/v2/items"},
		{"/root", "/root"},
		{srv.URL + "/abs", "/abs"},
	}

	for _, cs := range cases {
		res, err := c.Get(t.Context(), cs.ref, message.Header{})
		if err != nil {
			t.Errorf("c.Get(%q) error = %v, want nil", cs.ref, err)
			continue
		}
		if got := string(res.Body()); got != cs.want {
			t.Errorf("c.Get(%q) requested %q, want %q", cs.ref, got, cs.want)
		}
	}
}

func TestClient_Post(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		io.WriteString(w, r.Method+" "+r.Header.Get("Content-Type")+" "+string(body)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newClient(t, nil)

	res, err := c.Post(t.Context(), srv.URL, "application/json", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("c.Post() error = %v, want nil", err)
	}
	if got, want := string(res.Body()), `POST application/json {"a":1}`; got != want {
		t.Errorf("c.Post() echoed %q, want %q", got, want)
	}
}

func TestClient_Retry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/flaky" && hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/broken" {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newClient(t, &client.Options{
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})

	res, err := c.Get(t.Context(), srv.URL+"/flaky", message.Header{})
	if err != nil {
		t.Fatalf("c.Get(/flaky) error = %v, want nil", err)
	}
	if got, want := res.StatusCode(), http.StatusOK; got != want {
		t.Errorf("c.Get(/flaky) status = %d, want %d", got, want)
	}
	if got, want := hits.Load(), int32(2); got != want {
		t.Errorf("server hits = %d, want %d", got, want)
	}

	hits.Store(0)
	res, err = c.Get(t.Context(), srv.URL+"/broken", message.Header{})
	if err != nil {
		t.Fatalf("c.Get(/broken) error = %v, want nil", err)
	}
	if got, want := res.StatusCode(), http.StatusInternalServerError; got != want {
		t.Errorf("c.Get(/broken) status = %d, want %d", got, want)
	}
	if got, want := hits.Load(), int32(3); got != want {
		t.Errorf("server hits = %d, want %d", got, want)
	}
}

func TestClient_Send_InvalidRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)
	c := client.New(&client.Options{Doer: doer})

	for _, raw := range []string{"/relative", "ftp://example.com/", "http:/no-host", "mailto:a@b.c"} {
		_, err := c.Get(t.Context(), raw, message.Header{})
		if diff := cmp.Diff(err, error(client.ErrInvalidRequest), cmpopts.EquateErrors()); diff != "" {
			t.Errorf("c.Get(%q) error = %v, want %v\ndiff (-got +want):\n%v", raw, err, client.ErrInvalidRequest, diff)
		}
	}

	if _, err := c.Get(t.Context(), "http://:80", message.Header{}); !errors.Is(err, client.ErrInvalidRequest) {
		t.Errorf("c.Get() of malformed URI error = %v, want %v", err, client.ErrInvalidRequest)
	}
	if _, err := c.Send(t.Context(), nil); !errors.Is(err, client.ErrInvalidRequest) {
		t.Errorf("c.Send(nil) error = %v, want %v", err, client.ErrInvalidRequest)
	}
}

func TestClient_Send_Doer(t *testing.T) {
	t.Parallel()

	errConn := errors.New("connection refused")

	cases := []struct {
		name       string
		res        *http.Response
		err        error
		wantStatus int
		wantErr    error
	}{
		{
			"response",
			&http.Response{
				Status:     "418 I'm a teapot",
				StatusCode: http.StatusTeapot,
				ProtoMajor: 2,
				Header:     http.Header{"Content-Type": {"text/plain"}},
				Body:       io.NopCloser(strings.NewReader("short and stout")),
			},
			nil,
			http.StatusTeapot,
			nil,
		},
		{"network error", nil, errConn, 0, client.ErrNetwork},
		{
			"invalid status",
			&http.Response{StatusCode: 999, Body: io.NopCloser(strings.NewReader(""))},
			nil,
			0,
			client.ErrInvalidResponse,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			doer := NewMockDoer(ctrl)
			doer.EXPECT().
				Do(gomock.AssignableToTypeOf(&http.Request{})).
				DoAndReturn(func(r *http.Request) (*http.Response, error) {
					if got, want := r.URL.String(), "https://example.com/tea?x=%20"; got != want {
						t.Errorf("request URL = %q, want %q", got, want)
					}
					if got, want := r.Host, "example.com"; got != want {
						t.Errorf("request Host = %q, want %q", got, want)
					}
					if r.Header.Get("Host") != "" {
						t.Errorf("Host is sent as a regular header")
					}
					return c.res, c.err
				}).
				Times(1)

			cl := client.New(&client.Options{Doer: doer})
			res, err := cl.Get(t.Context(), "https://example.com/tea?x= ", message.Header{})
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("cl.Get() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if err != nil {
				return
			}
			if got := res.StatusCode(); got != c.wantStatus {
				t.Errorf("res.StatusCode() = %d, want %d", got, c.wantStatus)
			}
			if got, want := res.ReasonPhrase(), "I'm a teapot"; got != want {
				t.Errorf("res.ReasonPhrase() = %q, want %q", got, want)
			}
			if got, want := res.ProtocolVersion(), "2.0"; got != want {
				t.Errorf("res.ProtocolVersion() = %q, want %q", got, want)
			}
			if got, want := res.Header().Get("content-type"), "text/plain"; got != want {
				t.Errorf("Content-Type = %q, want %q", got, want)
			}
		})
	}
}

func TestClient_Logging(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong")) //nolint:errcheck
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger, err := log.New(log.FormatJSON, "debug", &buf)
	if err != nil {
		t.Fatalf("log.New() error = %v, want nil", err)
	}

	c := newClient(t, &client.Options{
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
		Timeout:      time.Second,
		Logger:       logger,
	})
	if _, err := c.Get(t.Context(), srv.URL+"/ping", message.Header{}); err != nil {
		t.Fatalf("c.Get() error = %v, want nil", err)
	}

	got := map[string]map[string]any{}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("json.Unmarshal(%q) error = %v, want nil", sc.Text(), err)
		}
		if msg, ok := rec["msg"].(string); ok {
			got[msg] = rec
		}
	}

	if rec, want := got["client created"]["retry"], "{Max:2 WaitMin:1ms WaitMax:5ms Timeout:1s}"; rec != want {
		t.Errorf("logged retry policy = %v, want %q", rec, want)
	}
	if rec, want := got["response received"]["body"], "pong"; rec != want {
		t.Errorf("logged response body = %v, want %q", rec, want)
	}
}
