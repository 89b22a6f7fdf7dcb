package relay

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"padrelay/internal/testutil/testlog"
)

// stubTransport records relay sends for assertions. failWrites simulates a
// broken peer whose sends error without blocking.
type stubTransport struct {
	mu         sync.Mutex
	frames     [][]byte
	pings      int
	closed     bool
	failWrites bool
}

func (t *stubTransport) WriteMessage(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrites {
		return errors.New("stub: write failed")
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	t.frames = append(t.frames, frame)
	return nil
}

func (t *stubTransport) Ping() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pings++
	return nil
}

func (t *stubTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *stubTransport) frameCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames)
}

func (t *stubTransport) pingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pings
}

func (t *stubTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// lastFrame decodes the most recent send into a generic object.
func (t *stubTransport) lastFrame(tb testing.TB) map[string]any {
	tb.Helper()
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.frames) == 0 {
		tb.Fatalf("expected at least one sent frame")
	}
	var out map[string]any
	if err := json.Unmarshal(t.frames[len(t.frames)-1], &out); err != nil {
		tb.Fatalf("decode sent frame: %v", err)
	}
	return out
}

func (t *stubTransport) lastRaw(tb testing.TB) []byte {
	tb.Helper()
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.frames) == 0 {
		tb.Fatalf("expected at least one sent frame")
	}
	return t.frames[len(t.frames)-1]
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	testlog.Start(t)
	return NewServer(zerolog.Nop())
}

// pairedSession wires one controller into session/code and returns both ends.
func pairedSession(t *testing.T, s *Server, sessionID, code string) (*Peer, *stubTransport) {
	t.Helper()
	tr := &stubTransport{}
	p := s.Connect(tr)
	s.HandleMessage(p, []byte(`{"type":"register","clientType":"controller"}`))
	s.HandleMessage(p, []byte(`{"type":"setPairingCode","sessionId":"`+sessionID+`","code":"`+code+`"}`))
	reply := tr.lastFrame(t)
	if reply["type"] != "pairingCodeSet" || reply["success"] != true {
		t.Fatalf("expected pairingCodeSet ack, got %v", reply)
	}
	return p, tr
}

// authedRemote connects a remote and authenticates it with code.
func authedRemote(t *testing.T, s *Server, code string) (*Peer, *stubTransport) {
	t.Helper()
	tr := &stubTransport{}
	p := s.Connect(tr)
	s.HandleMessage(p, []byte(`{"type":"register","clientType":"remote"}`))
	s.HandleMessage(p, []byte(`{"type":"auth","code":"`+code+`"}`))
	reply := tr.lastFrame(t)
	if reply["type"] != "authResult" || reply["success"] != true {
		t.Fatalf("expected successful authResult, got %v", reply)
	}
	return p, tr
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}
