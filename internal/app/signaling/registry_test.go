package signaling

import (
	"fmt"
	"sync"
	"testing"

	"doceasy/internal/pkg/auth/jwt"
)

func TestRegistry_BindLookupUnbind(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("conn-1"); ok {
		t.Fatal("lookup on empty registry must miss")
	}

	r.Bind("conn-1", jwt.Identity{UserID: "u1", Role: "patient"})

	identity, ok := r.Lookup("conn-1")
	if !ok || identity.UserID != "u1" || identity.Role != "patient" {
		t.Fatalf("bad lookup result: %+v ok=%v", identity, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}

	r.Unbind("conn-1")
	if _, ok := r.Lookup("conn-1"); ok {
		t.Fatal("lookup after unbind must miss")
	}
	if r.Len() != 0 {
		t.Fatalf("expected 0 sessions, got %d", r.Len())
	}
}

func TestRegistry_RebindOverwrites(t *testing.T) {
	r := NewRegistry()

	r.Bind("conn-1", jwt.Identity{UserID: "u1", Role: "patient"})
	r.Bind("conn-1", jwt.Identity{UserID: "u2", Role: "doctor"})

	identity, _ := r.Lookup("conn-1")
	if identity.UserID != "u2" || identity.Role != "doctor" {
		t.Fatalf("rebind must overwrite, got %+v", identity)
	}
	if r.Len() != 1 {
		t.Fatalf("rebind must not add a session, got %d", r.Len())
	}
}

func TestRegistry_UnbindUnknownIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Unbind("never-bound")
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			r.Bind(connID, jwt.Identity{UserID: fmt.Sprintf("user-%d", i), Role: "patient"})
			if _, ok := r.Lookup(connID); !ok {
				t.Errorf("own binding must be visible: %s", connID)
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != n {
		t.Fatalf("expected %d sessions, got %d", n, r.Len())
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Unbind(fmt.Sprintf("conn-%d", i))
		}(i)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Fatalf("expected empty registry after unbinds, got %d", r.Len())
	}
}
