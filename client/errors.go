package client

import "github.com/ghettovoice/httpkit/internal/errorutil"

// Error is a client error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrInvalidRequest is returned when a request can not be sent,
	// e.g. its URI is not an absolute http(s) URI.
	ErrInvalidRequest Error = "invalid request"
	// ErrInvalidResponse is returned when a received response can not be converted to [message.Response].
	ErrInvalidResponse Error = "invalid response"
	// ErrNetwork wraps transport failures.
	ErrNetwork Error = "network error"
)

func newErr(sentinel Error, args ...any) error {
	return errorutil.NewWrapperError(sentinel, args...) //errtrace:skip
}
