package protocol

import "errors"

var (
	ErrMalformedMessage   = errors.New("protocol: malformed message")
	ErrMissingType        = errors.New("protocol: missing message type")
	ErrInvalidRegister    = errors.New("protocol: invalid register")
	ErrInvalidPairingCode = errors.New("protocol: invalid pairing code message")
	ErrInvalidAuth        = errors.New("protocol: invalid auth message")
	ErrMessageTooLarge    = errors.New("protocol: message too large")
)
