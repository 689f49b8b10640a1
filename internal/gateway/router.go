package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Router turns one raw inbound frame into zero or more endpoint handler
// invocations: parse, classify trust, register, resolve targets, gate on
// system state, dispatch.
type Router struct {
	registry *Registry
	catalog  *EndpointCatalog
	state    *SystemStateNotifier
	presence PresenceRecorder
	logger   *slog.Logger
}

func NewRouter(
	registry *Registry,
	catalog *EndpointCatalog,
	state *SystemStateNotifier,
	presence PresenceRecorder,
	logger *slog.Logger,
) *Router {
	if presence == nil {
		presence = nopPresence{}
	}
	return &Router{
		registry: registry,
		catalog:  catalog,
		state:    state,
		presence: presence,
		logger:   logger,
	}
}

// Route processes one frame read from sender. Registration and delivery
// are not transactional: a handler failure does not undo a registration
// that already happened.
func (rt *Router) Route(ctx context.Context, sender Sender, raw []byte) error {
	msg, err := ParseWireMessage(raw)
	if err != nil {
		return err
	}

	endpoint := msg.Endpoint
	if msg.Source.Trusted() {
		if msg.ConnectionID == "" {
			return fmt.Errorf("%w: trusted %s message", ErrMissingConnectionID, msg.Source)
		}
		rt.registry.Register(msg.ConnectionID, sender, msg.UserID)
		if msg.UserID != "" {
			rt.presence.UserConnected(ctx, msg.UserID)
		}
	} else {
		// Untrusted frames are answered by the unauthorized endpoint no
		// matter what they asked for.
		endpoint = EndpointUnauthorized
	}

	if msg.Status == StatusFailure {
		rt.logger.Error("routing failure-status message",
			"connectionID", msg.ConnectionID, "userID", msg.UserID, "endpoint", endpoint)
	} else {
		rt.logger.Debug("routing message",
			"connectionID", msg.ConnectionID, "userID", msg.UserID, "endpoint", endpoint)
	}

	rt.Deliver(ctx, &NotificationRequest{
		Selector:   selectorFor(msg),
		Endpoint:   endpoint,
		Payload:    msg.Message,
		CanRespond: true,
	})
	return nil
}

// A message that does not declare a user-id selector falls back to the
// connection id, so one wire frame can both announce a connection and
// request a push.
func selectorFor(msg *WireMessage) Selector {
	if msg.UserID != "" {
		return ByUserID(msg.UserID)
	}
	return ByConnectionID(msg.ConnectionID)
}

// Deliver resolves the request's targets and dispatches each through the
// system-state gate and the endpoint catalog. Returns how many targets a
// handler ran for. Delivery order across sibling connections of one user
// is unspecified.
func (rt *Router) Deliver(ctx context.Context, req *NotificationRequest) int {
	var targets []*Connection
	if req.Selector.ByUser() {
		targets = rt.registry.FindAllByUserID(req.Selector.UserID)
	} else if conn, ok := rt.registry.FindByConnectionID(req.Selector.ConnectionID); ok {
		targets = append(targets, conn)
	}

	delivered := 0
	for _, conn := range targets {
		out := rt.state.Apply(ctx, req)
		handler := rt.catalog.Resolve(out.Endpoint)
		if err := rt.dispatch(handler, conn, out); err != nil {
			rt.logger.Error("endpoint handler failed",
				"endpoint", out.Endpoint, "connectionID", conn.ID, "userID", conn.UserID, "error", err)
			if errors.Is(err, ErrConnectionBroken) {
				rt.registry.Remove(conn.ID)
			}
			continue
		}
		delivered++
	}
	return delivered
}

// dispatch is the boundary past which handler failures may not propagate;
// a panicking handler must not take the event loop down with it.
func (rt *Router) dispatch(h EndpointHandler, conn *Connection, req *NotificationRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(conn, req)
}
