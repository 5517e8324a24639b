package errors

import "errors"

var (
	ErrStreamEnded          = errors.New("stream ended")
	ErrInvalidMatchID       = errors.New("invalid match id")
	ErrMatchNotFound        = errors.New("match not found")
	ErrSourceUnavailable    = errors.New("source unavailable")
	ErrEventSenderMissing   = errors.New("event sender not configured")
	ErrUnsupportedTransport = errors.New("unsupported transport")
)
