package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Client types carried on register.
const (
	ClientController = "controller"
	ClientRemote     = "remote"
)

// Register declares a peer's role. It does not grant authentication.
type Register struct {
	Type       string `json:"type"`
	ClientType string `json:"clientType"`
}

func (m Register) Validate() error {
	switch strings.TrimSpace(m.ClientType) {
	case ClientController, ClientRemote:
		return nil
	default:
		return fmt.Errorf("%w: unknown clientType %q", ErrInvalidRegister, m.ClientType)
	}
}

// SetPairingCode is the controller path: publishes the session's code and
// authenticates the sender as that session's controller.
type SetPairingCode struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Code      string `json:"code"`
}

func (m SetPairingCode) Validate() error {
	if strings.TrimSpace(m.SessionID) == "" {
		return fmt.Errorf("%w: missing sessionId", ErrInvalidPairingCode)
	}
	if strings.TrimSpace(m.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidPairingCode)
	}
	return nil
}

// Auth is the remote path: presents a pairing code for session membership.
type Auth struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

func (m Auth) Validate() error {
	if strings.TrimSpace(m.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidAuth)
	}
	return nil
}

// Ping is the latency probe. Timestamp is opaque to the relay and echoed
// back verbatim in the pong.
type Ping struct {
	Type      string          `json:"type"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// Ack is the shared success acknowledgment shape (registered, pairingCodeSet).
type Ack struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

// AuthResult reports the outcome of an auth attempt.
type AuthResult struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Pong answers a latency probe.
type Pong struct {
	Type      string          `json:"type"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// ErrorReply is the relay's protocol-level rejection.
type ErrorReply struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewRegistered() Ack {
	return Ack{Type: TypeRegistered, Success: true}
}

func NewPairingCodeSet() Ack {
	return Ack{Type: TypePairingCodeSet, Success: true}
}

func NewAuthSuccess() AuthResult {
	return AuthResult{Type: TypeAuthResult, Success: true}
}

func NewAuthFailure(reason string) AuthResult {
	return AuthResult{Type: TypeAuthResult, Success: false, Error: reason}
}

func NewPong(timestamp json.RawMessage) Pong {
	return Pong{Type: TypePong, Timestamp: timestamp}
}

func NewError(message string) ErrorReply {
	return ErrorReply{Type: TypeError, Message: message}
}
