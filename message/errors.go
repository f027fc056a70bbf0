package message

import "github.com/ghettovoice/httpkit/internal/errorutil"

// Error is a message error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidHeaderName    Error = "invalid header name"
	ErrInvalidHeaderValue   Error = "invalid header value"
	ErrInvalidMethod        Error = "invalid request method"
	ErrInvalidRequestTarget Error = "invalid request target"
	ErrInvalidStatus        Error = "invalid response status"
	ErrInvalidProtocol      Error = "invalid protocol version"
)

func newErr(sentinel Error, args ...any) error {
	return errorutil.NewWrapperError(sentinel, args...) //errtrace:skip
}
