package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types accepted from peers.
const (
	TypeRegister       = "register"
	TypeSetPairingCode = "setPairingCode"
	TypeAuth           = "auth"
	TypeTouch          = "touch"
	TypeBrowser        = "browser"
	TypeOpenKeyboard   = "openKeyboard"
	TypeCloseKeyboard  = "closeKeyboard"
	TypePing           = "ping"
)

// Message types emitted by the relay.
const (
	TypeRegistered     = "registered"
	TypePairingCodeSet = "pairingCodeSet"
	TypeAuthResult     = "authResult"
	TypePong           = "pong"
	TypeError          = "error"
)

// MaxMessageBytes bounds a single inbound frame.
const MaxMessageBytes = 64 * 1024

// Envelope is one decoded inbound frame. The raw bytes are retained so
// routed payloads can be forwarded without re-encoding.
type Envelope struct {
	Type string
	raw  []byte
}

// Decode parses the type discriminator out of one inbound frame.
func Decode(data []byte) (Envelope, error) {
	if len(data) > MaxMessageBytes {
		return Envelope{}, ErrMessageTooLarge
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if head.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return Envelope{Type: head.Type, raw: data}, nil
}

// Raw returns the original frame bytes for byte-identical forwarding.
func (e Envelope) Raw() []byte {
	return e.raw
}

// Payload unmarshals the frame into a typed message shape.
func (e Envelope) Payload(v any) error {
	if err := json.Unmarshal(e.raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return nil
}

// RemoteInput reports whether t is a remote-originated payload class that
// fans out to same-session controllers.
func RemoteInput(t string) bool {
	return t == TypeTouch || t == TypeBrowser
}

// ControllerNotice reports whether t is a controller-originated payload
// class that fans out to same-session remotes.
func ControllerNotice(t string) bool {
	return t == TypeOpenKeyboard || t == TypeCloseKeyboard
}

// Routed reports whether t is subject to the authentication gate.
func Routed(t string) bool {
	return RemoteInput(t) || ControllerNotice(t)
}
