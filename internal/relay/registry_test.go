package relay

import (
	"sync"
	"testing"
)

func TestRemoveCascadesControllerPairingEntry(t *testing.T) {
	codes := NewPairingStore()
	reg := NewRegistry(codes)

	controller := NewPeer(&stubTransport{})
	reg.Add(controller)
	codes.SetCode("sess1", "482913")
	controller.Bind(Identity{Role: RoleController, SessionID: "sess1"})

	if !reg.Remove(controller) {
		t.Fatalf("expected removal of present peer")
	}
	if _, ok := codes.FindSessionByCode("482913"); ok {
		t.Fatalf("expected pairing entry purged with its controller")
	}
}

func TestRemoveDoesNotCascadeForRemotes(t *testing.T) {
	codes := NewPairingStore()
	reg := NewRegistry(codes)
	codes.SetCode("sess1", "482913")

	remote := NewPeer(&stubTransport{})
	reg.Add(remote)
	remote.Bind(Identity{Role: RoleRemote, SessionID: "sess1"})

	reg.Remove(remote)
	if _, ok := codes.FindSessionByCode("482913"); !ok {
		t.Fatalf("expected pairing entry to survive a remote disconnect")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := NewRegistry(NewPairingStore())
	p := NewPeer(&stubTransport{})
	reg.Add(p)
	if !reg.Remove(p) {
		t.Fatalf("expected first removal to report presence")
	}
	if reg.Remove(p) {
		t.Fatalf("expected second removal to be a no-op")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}

func TestSnapshotToleratesConcurrentMutation(t *testing.T) {
	reg := NewRegistry(NewPairingStore())
	peers := make([]*Peer, 0, 64)
	for i := 0; i < 64; i++ {
		p := NewPeer(&stubTransport{})
		peers = append(peers, p)
		reg.Add(p)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, p := range peers {
			reg.Remove(p)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 32; i++ {
			for _, p := range reg.Snapshot() {
				_ = p.Alive()
			}
		}
	}()
	wg.Wait()

	if reg.Len() != 0 {
		t.Fatalf("expected all peers removed, got %d", reg.Len())
	}
}
