package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeRejectsMalformedAndUntyped(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
	if _, err := Decode([]byte(`{"code":"482913"}`)); !errors.Is(err, ErrMissingType) {
		t.Fatalf("expected ErrMissingType, got %v", err)
	}
	oversized := []byte(`{"type":"touch","pad":"` + strings.Repeat("x", MaxMessageBytes) + `"}`)
	if _, err := Decode(oversized); !errors.Is(err, ErrMessageTooLarge) {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
}

func TestDecodePreservesRawBytes(t *testing.T) {
	frame := []byte(`{"type":"touch","action":"move","dx":5,"dy":3}`)
	env, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if env.Type != TypeTouch {
		t.Fatalf("expected type %q, got %q", TypeTouch, env.Type)
	}
	if !bytes.Equal(env.Raw(), frame) {
		t.Fatalf("raw bytes mutated: %s", env.Raw())
	}
}

func TestRegisterValidate(t *testing.T) {
	for _, clientType := range []string{ClientController, ClientRemote} {
		m := Register{Type: TypeRegister, ClientType: clientType}
		if err := m.Validate(); err != nil {
			t.Fatalf("expected %q to validate, got %v", clientType, err)
		}
	}
	m := Register{Type: TypeRegister, ClientType: "toaster"}
	if err := m.Validate(); !errors.Is(err, ErrInvalidRegister) {
		t.Fatalf("expected ErrInvalidRegister, got %v", err)
	}
}

func TestControlMessageValidation(t *testing.T) {
	spc := SetPairingCode{Type: TypeSetPairingCode, SessionID: "sess1", Code: "482913"}
	if err := spc.Validate(); err != nil {
		t.Fatalf("expected valid setPairingCode, got %v", err)
	}
	spc.Code = " "
	if err := spc.Validate(); !errors.Is(err, ErrInvalidPairingCode) {
		t.Fatalf("expected ErrInvalidPairingCode, got %v", err)
	}
	spc.Code, spc.SessionID = "482913", ""
	if err := spc.Validate(); !errors.Is(err, ErrInvalidPairingCode) {
		t.Fatalf("expected ErrInvalidPairingCode, got %v", err)
	}

	auth := Auth{Type: TypeAuth, Code: ""}
	if err := auth.Validate(); !errors.Is(err, ErrInvalidAuth) {
		t.Fatalf("expected ErrInvalidAuth, got %v", err)
	}
}

func TestRoutedClassification(t *testing.T) {
	for _, typ := range []string{TypeTouch, TypeBrowser} {
		if !RemoteInput(typ) || !Routed(typ) {
			t.Fatalf("expected %q to be remote input", typ)
		}
	}
	for _, typ := range []string{TypeOpenKeyboard, TypeCloseKeyboard} {
		if !ControllerNotice(typ) || !Routed(typ) {
			t.Fatalf("expected %q to be controller notice", typ)
		}
	}
	for _, typ := range []string{TypeRegister, TypeAuth, TypeSetPairingCode, TypePing} {
		if Routed(typ) {
			t.Fatalf("expected %q to bypass routing classification", typ)
		}
	}
}

func TestPongEchoesOpaqueTimestamp(t *testing.T) {
	env, err := Decode([]byte(`{"type":"ping","timestamp":1736960000123}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	var ping Ping
	if err := env.Payload(&ping); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	out, err := json.Marshal(NewPong(ping.Timestamp))
	if err != nil {
		t.Fatalf("marshal pong: %v", err)
	}
	if string(out) != `{"type":"pong","timestamp":1736960000123}` {
		t.Fatalf("unexpected pong frame: %s", out)
	}
}
