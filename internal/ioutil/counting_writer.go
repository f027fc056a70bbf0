// Package ioutil provides I/O helpers for rendering values.
package ioutil

import (
	"fmt"
	"io"
	"sync"

	"braces.dev/errtrace"
)

// CountingWriter counts bytes written to the underlying writer and remembers the first error.
// After the first error all writes are skipped.
type CountingWriter struct {
	w   io.Writer
	num int
	err error
}

// NewCountingWriter creates a new CountingWriter wrapping the given writer.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{w: w}
}

func (cw *CountingWriter) track(n int, err error) (int, error) {
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
		return n, cw.err
	}
	return n, nil
}

// Write implements [io.Writer].
func (cw *CountingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(cw.w.Write(p))
}

// WriteString implements [io.StringWriter].
func (cw *CountingWriter) WriteString(s string) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(io.WriteString(cw.w, s))
}

// Fprint writes operands with [fmt.Fprint].
func (cw *CountingWriter) Fprint(args ...any) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	return cw.track(fmt.Fprint(cw.w, args...))
}

// Call passes the underlying writer to a RenderTo-style function.
func (cw *CountingWriter) Call(fn func(io.Writer) (int, error)) *CountingWriter {
	if cw.err == nil {
		cw.track(fn(cw.w)) //nolint:errcheck
	}
	return cw
}

// Result returns the total number of bytes written and the first error.
func (cw *CountingWriter) Result() (num int, err error) {
	return cw.num, errtrace.Wrap(cw.err)
}

var cntWrtPool = &sync.Pool{
	New: func() any { return &CountingWriter{} },
}

// GetCountingWriter returns a pooled CountingWriter wrapping w.
func GetCountingWriter(w io.Writer) *CountingWriter {
	cw := cntWrtPool.Get().(*CountingWriter) //nolint:forcetypeassert
	cw.w = w
	return cw
}

// FreeCountingWriter resets cw and returns it to the pool.
func FreeCountingWriter(cw *CountingWriter) {
	cw.w = nil
	cw.num = 0
	cw.err = nil
	cntWrtPool.Put(cw)
}
