/*
Package signaling implements the real-time signaling relay for video consultations.

This file defines the Registry, the process-wide mapping from live connection
ids to authenticated identities. Entries are ephemeral: they exist only
between a successful authenticate and the connection's disconnect, and do not
survive a process restart (neither do the connections).
*/
package signaling

import (
	"sync"

	"doceasy/internal/pkg/auth/jwt"
)

// Registry maps connection ids to verified identities.
// It is owned by the server process and injected into the relay; every
// operation takes the lock for the shortest possible span and nothing
// blocking is ever called while holding it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]jwt.Identity
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]jwt.Identity)}
}

// Bind stores the identity for connID, silently overwriting any previous
// binding (re-authentication on the same connection is allowed).
func (r *Registry) Bind(connID string, identity jwt.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connID] = identity
}

// Lookup returns the identity bound to connID, if any.
func (r *Registry) Lookup(connID string) (jwt.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.sessions[connID]
	return identity, ok
}

// Unbind removes the binding for connID. Unbinding an unknown id is a no-op.
func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connID)
}

// Len reports the number of live authenticated sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
