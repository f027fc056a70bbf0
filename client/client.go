// Package client sends [message.Request] over HTTP with retries.
package client

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -source=client.go -destination=doer_mock_test.go -package=client_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/ghettovoice/httpkit/internal/errorutil"
	"github.com/ghettovoice/httpkit/internal/log"
	"github.com/ghettovoice/httpkit/message"
	"github.com/ghettovoice/httpkit/uri"
)

// Doer sends HTTP requests, [http.Client] implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options are options of [Client].
type Options struct {
	// BaseURI is used to resolve relative request URIs.
	BaseURI uri.URI
	// RetryMax is the maximum number of retries, 0 disables retries.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	// Zero values use defaults of the retryablehttp package.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Timeout limits a single attempt, 0 means no limit.
	Timeout time.Duration
	// UserAgent is set to requests without User-Agent header.
	UserAgent string
	// Doer replaces the default retrying HTTP client.
	Doer Doer
	// Logger is used for request logging, [log.Noop] is used by default.
	Logger *slog.Logger
}

func (o *Options) baseURI() uri.URI {
	if o == nil {
		return uri.URI{}
	}
	return o.BaseURI
}

func (o *Options) userAgent() string {
	if o == nil {
		return ""
	}
	return o.UserAgent
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Noop
	}
	return o.Logger
}

// Client sends requests and returns responses with fully read bodies.
// It is safe for concurrent use.
type Client struct {
	doer      Doer
	transport *http.Transport
	baseURI   uri.URI
	userAgent string
	log       *slog.Logger
}

// New creates a new client.
func New(opts *Options) *Client {
	c := &Client{
		baseURI:   opts.baseURI(),
		userAgent: opts.userAgent(),
		log:       opts.logger(),
	}
	if opts != nil && opts.Doer != nil {
		c.doer = opts.Doer
		return c
	}

	c.transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
		IdleConnTimeout:       90 * time.Second,
	}

	rc := retryablehttp.NewClient()
	rc.Logger = c.log
	rc.HTTPClient = &http.Client{Transport: c.transport}
	rc.ErrorHandler = passResponse
	if opts != nil {
		rc.RetryMax = opts.RetryMax
		rc.HTTPClient.Timeout = opts.Timeout
		if opts.RetryWaitMin > 0 {
			rc.RetryWaitMin = opts.RetryWaitMin
		}
		if opts.RetryWaitMax > 0 {
			rc.RetryWaitMax = opts.RetryWaitMax
		}
	} else {
		rc.RetryMax = 0
	}
	c.log.LogAttrs(context.Background(), slog.LevelDebug, "client created",
		slog.Any("base_uri", c.baseURI),
		slog.Any("retry", log.FmtValue(retryPolicy{
			Max:     rc.RetryMax,
			WaitMin: rc.RetryWaitMin,
			WaitMax: rc.RetryWaitMax,
			Timeout: rc.HTTPClient.Timeout,
		}, false)),
	)
	c.doer = rc.StandardClient()
	return c
}

type retryPolicy struct {
	Max              int
	WaitMin, WaitMax time.Duration
	Timeout          time.Duration
}

// passResponse returns the last response when retries are exhausted,
// so error statuses reach the caller as responses.
func passResponse(res *http.Response, err error, attempts int) (*http.Response, error) {
	if res != nil {
		return res, nil
	}
	return nil, errtrace.Wrap(fmt.Errorf("giving up after %d attempt(s): %w", attempts, err))
}

// CloseIdleConnections closes idle connections of the default transport.
func (c *Client) CloseIdleConnections() {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}

// Send sends the request and reads the whole response.
//
// A relative request URI is resolved against [Options.BaseURI].
// Error statuses are returned as responses, only transport failures return [ErrNetwork].
func (c *Client) Send(ctx context.Context, req *message.Request) (*message.Response, error) {
	req, err := c.prepare(req)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method(), req.URI().String(), bytes.NewReader(req.Body()))
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequest, err))
	}
	hreq.Header = req.Header().HTTP()
	if host := hreq.Header.Get("Host"); host != "" {
		hreq.Host = host
		hreq.Header.Del("Host")
	}
	if c.userAgent != "" && hreq.Header.Get("User-Agent") == "" {
		hreq.Header.Set("User-Agent", c.userAgent)
	}

	c.log.LogAttrs(ctx, slog.LevelDebug, "send request", slog.Any("request", req))

	hres, err := c.doer.Do(hreq)
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelWarn, "request failed",
			slog.Any("request", req),
			slog.Bool("timeout", errorutil.IsTimeoutErr(err)),
			slog.Any("error", err),
		)
		return nil, errtrace.Wrap(newErr(ErrNetwork, err))
	}
	defer hres.Body.Close()

	body, err := io.ReadAll(hres.Body)
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrNetwork, err))
	}

	res, err := toResponse(hres, body)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	c.log.LogAttrs(ctx, slog.LevelDebug, "response received",
		slog.Any("request", req),
		slog.Any("response", res),
		slog.Any("body", log.StringValue(body)),
	)
	return res, nil
}

func (c *Client) prepare(req *message.Request) (*message.Request, error) {
	if req == nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequest, "nil request"))
	}

	u := req.URI()
	if !u.IsAbsolute() && !c.baseURI.IsZero() {
		r, err := uri.Resolve(c.baseURI, u)
		if err != nil {
			return nil, errtrace.Wrap(newErr(ErrInvalidRequest, err))
		}
		req, u = req.WithURI(r, true), r
	}

	if s := u.Scheme(); s != "http" && s != "https" || u.Host() == "" {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequest, "URI %q is not an absolute http(s) URI", u.Redacted()))
	}
	return req, nil
}

func toResponse(hres *http.Response, body []byte) (*message.Response, error) {
	hdr, err := message.HeaderFromHTTP(hres.Header)
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidResponse, err))
	}

	res, err := message.NewResponse(hres.StatusCode, hdr, body)
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidResponse, err))
	}
	if _, reason, ok := strings.Cut(hres.Status, " "); ok && reason != "" {
		if res, err = res.WithStatus(hres.StatusCode, reason); err != nil {
			return nil, errtrace.Wrap(newErr(ErrInvalidResponse, err))
		}
	}
	if hres.ProtoMajor > 0 {
		if res, err = res.WithProtocolVersion(fmt.Sprintf("%d.%d", hres.ProtoMajor, hres.ProtoMinor)); err != nil {
			return nil, errtrace.Wrap(newErr(ErrInvalidResponse, err))
		}
	}
	return res, nil
}

// Get sends a GET request to the raw URI.
func (c *Client) Get(ctx context.Context, rawURI string, hdr message.Header) (*message.Response, error) {
	return errtrace.Wrap2(c.do(ctx, http.MethodGet, rawURI, hdr, nil))
}

// Post sends a POST request with the body of the given content type to the raw URI.
func (c *Client) Post(ctx context.Context, rawURI, contentType string, body []byte) (*message.Response, error) {
	hdr, err := message.NewHeader("Content-Type", contentType)
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequest, err))
	}
	return errtrace.Wrap2(c.do(ctx, http.MethodPost, rawURI, hdr, body))
}

func (c *Client) do(ctx context.Context, method, rawURI string, hdr message.Header, body []byte) (*message.Response, error) {
	u, err := uri.Parse(rawURI)
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequest, err))
	}
	req, err := message.NewRequest(method, u, hdr, body)
	if err != nil {
		return nil, errtrace.Wrap(newErr(ErrInvalidRequest, err))
	}
	return errtrace.Wrap2(c.Send(ctx, req))
}
