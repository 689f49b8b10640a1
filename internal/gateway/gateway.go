package gateway

import (
	"context"
	"log/slog"
	"time"
)

const eventBuffer = 256

type openEvent struct{ sender Sender }

type frameEvent struct {
	sender Sender
	data   []byte
}

type closeEvent struct{ sender Sender }

type errorEvent struct {
	sender Sender
	err    error
}

type notifyEvent struct{ req *NotificationRequest }

type statsEvent struct{ reply chan Stats }

// Stats is a point-in-time view of the registry, taken inside the event
// loop so it never observes a half-applied mutation.
type Stats struct {
	Connections int            `json:"connections"`
	Users       map[string]int `json:"users"`
}

// Gateway owns the event loop that drives every open, frame, close and
// error callback into the registry, router and lifecycle manager. One
// goroutine processes events strictly one at a time, to completion, in
// arrival order; that single-writer rule is why the registry needs no
// lock.
type Gateway struct {
	registry  *Registry
	router    *Router
	lifecycle *LifecycleManager
	presence  PresenceRecorder

	events chan any
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	logger *slog.Logger
}

func New(
	registry *Registry,
	router *Router,
	lifecycle *LifecycleManager,
	presence PresenceRecorder,
	logger *slog.Logger,
) *Gateway {
	if presence == nil {
		presence = nopPresence{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		registry:  registry,
		router:    router,
		lifecycle: lifecycle,
		presence:  presence,
		events:    make(chan any, eventBuffer),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Run processes events until Stop is called, then closes every remaining
// connection.
func (g *Gateway) Run() {
	defer close(g.done)
	for {
		select {
		case ev := <-g.events:
			g.handle(ev)
		case <-g.ctx.Done():
			g.shutdown()
			return
		}
	}
}

// Stop shuts the event loop down and waits for it to finish.
func (g *Gateway) Stop() {
	g.cancel()
	<-g.done
}

func (g *Gateway) handle(ev any) {
	switch ev := ev.(type) {
	case openEvent:
		// Eviction piggybacks on accepted connections; no timer drives the
		// sweep, so its granularity follows connection churn.
		g.lifecycle.Sweep(g.ctx, time.Now())
	case frameEvent:
		if err := g.router.Route(g.ctx, ev.sender, ev.data); err != nil {
			g.logger.Error("rejecting inbound message", "error", err)
		}
	case closeEvent:
		g.detach(ev.sender)
	case errorEvent:
		g.logger.Error("socket error", "error", ev.err)
		g.detach(ev.sender)
	case notifyEvent:
		n := g.router.Deliver(g.ctx, ev.req)
		g.logger.Debug("notification delivered",
			"endpoint", ev.req.Endpoint, "userID", ev.req.Selector.UserID,
			"connectionID", ev.req.Selector.ConnectionID, "targets", n)
	case statsEvent:
		ev.reply <- g.stats()
	}
}

func (g *Gateway) detach(s Sender) {
	for _, conn := range g.registry.RemoveBySender(s) {
		if conn.Authenticated() {
			g.presence.UserDisconnected(g.ctx, conn.UserID)
		}
	}
}

func (g *Gateway) stats() Stats {
	stats := Stats{
		Connections: g.registry.Len(),
		Users:       make(map[string]int),
	}
	for _, conn := range g.registry.All() {
		if conn.Authenticated() {
			stats.Users[conn.UserID]++
		}
	}
	return stats
}

func (g *Gateway) shutdown() {
	g.logger.Info("gateway shutting down", "connections", g.registry.Len())
	for _, conn := range g.registry.All() {
		g.registry.Remove(conn.ID)
	}
}

// enqueue hands an event to the loop, giving up once the loop has exited
// so transport goroutines never block on a dead gateway.
func (g *Gateway) enqueue(ev any) bool {
	select {
	case g.events <- ev:
		return true
	case <-g.done:
		return false
	}
}

// Open reports an accepted socket. The connection is not registered here;
// registration happens on the first announce frame.
func (g *Gateway) Open(s Sender) { g.enqueue(openEvent{sender: s}) }

// Receive hands one inbound frame to the loop. Frames from the same socket
// are processed in the order received.
func (g *Gateway) Receive(s Sender, data []byte) { g.enqueue(frameEvent{sender: s, data: data}) }

// Closed reports that the peer closed the socket.
func (g *Gateway) Closed(s Sender) { g.enqueue(closeEvent{sender: s}) }

// Failed reports an unrecoverable socket error.
func (g *Gateway) Failed(s Sender, err error) { g.enqueue(errorEvent{sender: s, err: err}) }

// Notify asks the loop to deliver req to whatever its selector resolves
// to. Fire and forget; the in-process entry point for backend collaborators.
func (g *Gateway) Notify(req *NotificationRequest) { g.enqueue(notifyEvent{req: req}) }

// Stats returns a registry snapshot. The request rides the event channel,
// so the answer reflects every event enqueued before the call.
func (g *Gateway) Stats() Stats {
	reply := make(chan Stats, 1)
	if !g.enqueue(statsEvent{reply: reply}) {
		return Stats{Users: map[string]int{}}
	}
	select {
	case stats := <-reply:
		return stats
	case <-g.done:
		return Stats{Users: map[string]int{}}
	}
}
