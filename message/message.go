// Package message provides immutable HTTP request and response messages.
//
// Every With* method returns a modified copy and never changes the receiver,
// so messages are safe for concurrent use.
package message

//go:generate go tool errtrace -w .

import (
	"io"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpkit/internal/grammar"
	"github.com/ghettovoice/httpkit/internal/ioutil"
)

// DefaultProtocolVersion is the protocol version of new messages.
const DefaultProtocolVersion = "1.1"

// parts shared by requests and responses.
type base struct {
	proto  string
	header Header
	body   []byte
}

// ProtocolVersion returns the HTTP version, e.g. "1.1".
func (m *base) ProtocolVersion() string { return m.proto }

// Header returns the header of the message.
func (m *base) Header() Header { return m.header }

// Body returns a copy of the body.
func (m *base) Body() []byte { return slices.Clone(m.body) }

func checkProto(v string) error {
	major, minor, hasMinor := strings.Cut(v, ".")
	if !isDigits(major) || hasMinor && !isDigits(minor) {
		return errtrace.Wrap(newErr(ErrInvalidProtocol, "%q", v))
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !grammar.IsDigit(s[i]) {
			return false
		}
	}
	return true
}

// renderMessage writes the start line, the header and the body.
func renderMessage(w io.Writer, startLine func(io.Writer) (int, error), m *base) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(startLine)
	cw.Fprint("\r\n")
	cw.Call(m.header.RenderTo)
	cw.Fprint("\r\n")
	cw.Write(m.body)
	return errtrace.Wrap2(cw.Result())
}
