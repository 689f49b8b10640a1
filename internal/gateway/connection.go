package gateway

import "time"

// Sender is the write side of one open socket. Implementations must not
// block: a send that cannot be buffered fails immediately with
// ErrConnectionBroken.
type Sender interface {
	Send(v any) error
	Close() error
}

// Connection is one physical duplex socket currently tracked by the
// registry. The identifier is client-generated, unique per browser tab; a
// user with several tabs open holds several connections.
type Connection struct {
	ID       string
	UserID   string
	OpenedAt time.Time

	sender Sender
}

// Authenticated reports whether the client has announced a user identity.
func (c *Connection) Authenticated() bool { return c.UserID != "" }

// Send pushes v to the peer. Best effort, never blocking.
func (c *Connection) Send(v any) error { return c.sender.Send(v) }

func (c *Connection) close() {
	if c.sender != nil {
		c.sender.Close()
	}
}
