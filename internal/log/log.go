// Package log provides logging utilities.
package log

//go:generate go tool errtrace -w .

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/httpkit/internal/constraints"
	"github.com/ghettovoice/httpkit/internal/errorutil"
)

// Supported output formats of [New].
const (
	FormatConsole = "console"
	FormatDev     = "dev"
	FormatJSON    = "json"
	FormatText    = "text"
)

// sensitiveHeaders are replaced with "xxxxx" in logs.
var sensitiveHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie"}

func redactHeader(h http.Header) slog.Value {
	attrs := make([]slog.Attr, 0, len(h))
	for name, vals := range h {
		v := strings.Join(vals, ", ")
		for _, s := range sensitiveHeaders {
			if http.CanonicalHeaderKey(name) == s {
				v = "xxxxx"
				break
			}
		}
		attrs = append(attrs, slog.String(name, v))
	}
	return slog.GroupValue(attrs...)
}

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(u *url.URL) slog.Value {
		if u == nil {
			return slog.StringValue("<nil>")
		}
		return slog.StringValue(u.Redacted())
	}),
	slogformatter.FormatByType(redactHeader),
	slogformatter.FormatByType(func(r *http.Request) slog.Value {
		if r == nil {
			return slog.StringValue("<nil>")
		}
		return slog.GroupValue(
			slog.String("method", r.Method),
			slog.String("url", r.URL.Redacted()),
			slog.String("proto", r.Proto),
			slog.Any("header", redactHeader(r.Header)),
		)
	}),
	slogformatter.FormatByType(func(r *http.Response) slog.Value {
		if r == nil {
			return slog.StringValue("<nil>")
		}
		return slog.GroupValue(
			slog.String("status", r.Status),
			slog.String("proto", r.Proto),
			slog.Int64("content_length", r.ContentLength),
		)
	}),
)

// New creates a logger that writes records of the given level and above to w.
// The level is one of "debug", "info", "warn", "error" optionally followed by an offset, e.g. "info+2".
func New(format, level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}

	var h slog.Handler
	switch strings.ToLower(format) {
	case FormatConsole, "":
		h = console.NewHandler(w, &console.HandlerOptions{
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		})
	case FormatDev:
		h = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{AddSource: true, Level: lvl},
			SortKeys:       true,
			TimeFormat:     time.RFC3339Nano,
		})
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	case FormatText:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown log format %q", format))
	}
	return slog.New(newHandler(h)), nil
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

type fmtValue struct {
	v        any
	goSyntax bool
}

func (v fmtValue) LogValue() slog.Value {
	if v.goSyntax {
		return slog.StringValue(fmt.Sprintf("%#v", v.v))
	}
	return slog.StringValue(fmt.Sprintf("%+v", v.v))
}

// FmtValue returns a value logger that formats values using '%+v' or '%#v' syntax.
func FmtValue(v any, goSyntax bool) slog.LogValuer { return fmtValue{v, goSyntax} }

type stringValue[T constraints.Byteseq] struct {
	v T
}

func (v stringValue[T]) LogValue() slog.Value {
	return slog.StringValue(string(v.v))
}

// StringValue returns a value logger that formats v as string.
func StringValue[T constraints.Byteseq](v T) slog.LogValuer { return stringValue[T]{v} }
