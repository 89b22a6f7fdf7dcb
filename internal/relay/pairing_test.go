package relay

import "testing"

func TestSetCodeLastWriteWins(t *testing.T) {
	store := NewPairingStore()
	store.SetCode("sess1", "111111")
	store.SetCode("sess1", "222222")

	if _, ok := store.FindSessionByCode("111111"); ok {
		t.Fatalf("expected replaced code to be invalid")
	}
	session, ok := store.FindSessionByCode("222222")
	if !ok || session != "sess1" {
		t.Fatalf("expected latest code to resolve sess1, got %q ok=%v", session, ok)
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one active code, got %d", store.Len())
	}
}

func TestFindSessionByCodeMiss(t *testing.T) {
	store := NewPairingStore()
	store.SetCode("sess1", "482913")
	if _, ok := store.FindSessionByCode("000000"); ok {
		t.Fatalf("expected miss for unknown code")
	}
}

func TestDeleteSessionInvalidatesCode(t *testing.T) {
	store := NewPairingStore()
	store.SetCode("sess1", "482913")
	store.DeleteSession("sess1")
	if _, ok := store.FindSessionByCode("482913"); ok {
		t.Fatalf("expected deleted session's code to be invalid")
	}
	// Unknown sessions are a no-op.
	store.DeleteSession("sess-missing")
}

func TestSharedCodeResolvesSomeSession(t *testing.T) {
	// Uniqueness across sessions is not enforced; the lookup returns an
	// arbitrary holder of the shared code.
	store := NewPairingStore()
	store.SetCode("sess1", "482913")
	store.SetCode("sess2", "482913")
	session, ok := store.FindSessionByCode("482913")
	if !ok || (session != "sess1" && session != "sess2") {
		t.Fatalf("expected one of the holding sessions, got %q ok=%v", session, ok)
	}
}
