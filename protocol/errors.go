package protocol

import "errors"

var (
	ErrInvalidPayload = errors.New("invalid payload size")
	ErrMalformedFrame = errors.New("malformed frame")
	ErrTextTooLong    = errors.New("text exceeds 16 bytes")
	ErrTimeout        = errors.New("operation timed out")
	ErrInvalidChannel = errors.New("invalid channel (valid range: 0-125)")
)
