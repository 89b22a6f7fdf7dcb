package relay

import "sync"

// PairingStore maps a session id to its currently valid pairing code.
// Codes are short numeric strings minted by the controller side; the store
// is bounded by the number of concurrently paired sessions.
type PairingStore struct {
	mu    sync.RWMutex
	codes map[string]string
}

func NewPairingStore() *PairingStore {
	return &PairingStore{
		codes: make(map[string]string),
	}
}

// SetCode publishes the session's code. Last write wins; re-pairing a
// session replaces the previous code.
func (s *PairingStore) SetCode(sessionID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[sessionID] = code
}

// FindSessionByCode returns the first session holding the code. Uniqueness
// across sessions is not enforced; two sessions sharing a code is an
// accepted ambiguity and the match is arbitrary.
func (s *PairingStore) FindSessionByCode(code string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sessionID, have := range s.codes {
		if have == code {
			return sessionID, true
		}
	}
	return "", false
}

// DeleteSession invalidates the session's code. Missing sessions are a no-op.
func (s *PairingStore) DeleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, sessionID)
}

// Len reports the number of sessions holding an active code.
func (s *PairingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.codes)
}
