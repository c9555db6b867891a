package reactor

import "sync"

// Registry tracks the set of live HTTP-phase connections, so the
// server can account for and forcibly drop them on shutdown. Grounded
// on coregx-stream/websocket/hub.go's client set, simplified from a
// channel-driven event loop to a mutex since the registry here only
// needs membership bookkeeping, not broadcast.
type Registry struct {
	mu    sync.Mutex
	conns map[*Connection]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[*Connection]struct{})}
}

// Add registers c.
func (r *Registry) Add(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c] = struct{}{}
}

// Remove deregisters c. A no-op if c isn't registered (a connection
// self-removes once on upgrade or close; double-removal must not
// panic).
func (r *Registry) Remove(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c)
}

// Count reports the number of currently tracked connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// StopAll closes every tracked connection's socket, per spec.md §5's
// cancellation model. Each Close causes that connection's Serve loop to
// exit and self-remove via its onClosed callback.
func (r *Registry) StopAll() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
