package gateway

import "context"

// PresenceRecorder mirrors connect/disconnect facts into a shared store so
// the HTTP layer can answer "is this user online". Recording is best
// effort; implementations log their own failures.
type PresenceRecorder interface {
	UserConnected(ctx context.Context, userID string)
	UserDisconnected(ctx context.Context, userID string)
}

type nopPresence struct{}

func (nopPresence) UserConnected(context.Context, string) {}

func (nopPresence) UserDisconnected(context.Context, string) {}
