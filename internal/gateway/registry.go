package gateway

import (
	"log/slog"
	"time"
)

// Registry is the authoritative table of open connections, keyed by the
// client-generated connection identifier. It is owned by the gateway's
// event loop; only that goroutine touches it, so it carries no lock.
type Registry struct {
	conns  map[string]*Connection
	logger *slog.Logger
	now    func() time.Time
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		logger: logger,
		now:    time.Now,
	}
}

// Register inserts or overwrites the entry for id. Reconnecting tabs reuse
// their identifier, so the last writer wins; the stale entry is dropped
// without closing its handle.
func (r *Registry) Register(id string, sender Sender, userID string) *Connection {
	conn := &Connection{
		ID:       id,
		UserID:   userID,
		OpenedAt: r.now(),
		sender:   sender,
	}
	r.conns[id] = conn
	r.logger.Info("connection registered", "connectionID", id, "userID", userID)
	return conn
}

func (r *Registry) FindByConnectionID(id string) (*Connection, bool) {
	conn, ok := r.conns[id]
	return conn, ok
}

// FindAllByUserID returns every connection announced by userID. The
// registry is indexed by connection id only, so this is a linear scan.
func (r *Registry) FindAllByUserID(userID string) []*Connection {
	var conns []*Connection
	for _, conn := range r.conns {
		if conn.UserID == userID {
			conns = append(conns, conn)
		}
	}
	return conns
}

// Remove closes the underlying handle and deletes the entry. Removing an
// unknown id is a no-op.
func (r *Registry) Remove(id string) {
	conn, ok := r.conns[id]
	if !ok {
		return
	}
	conn.close()
	delete(r.conns, id)
	r.logger.Info("connection removed", "connectionID", id, "userID", conn.UserID)
}

// RemoveBySender drops every entry owned by sender and returns the removed
// connections. The socket layer reports closes by handle; it never learns
// the registry key the peer announced.
func (r *Registry) RemoveBySender(s Sender) []*Connection {
	var removed []*Connection
	for id, conn := range r.conns {
		if conn.sender == s {
			removed = append(removed, conn)
			r.Remove(id)
		}
	}
	return removed
}

func (r *Registry) Len() int { return len(r.conns) }

// All returns the current entries in no particular order.
func (r *Registry) All() []*Connection {
	conns := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}
