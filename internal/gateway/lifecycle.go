package gateway

import (
	"context"
	"log/slog"
	"time"
)

// UserActivity is the externally looked-up liveness fact for one user. A
// zero LastActivity means the user record carries no activity timestamp.
type UserActivity struct {
	Exists       bool
	LastActivity time.Time
}

// UserActivitySource answers whether a user still exists and when they were
// last active elsewhere in the system. Backed by the application's user
// store.
type UserActivitySource interface {
	LookupUser(ctx context.Context, userID string) (UserActivity, error)
}

// LifecycleManager evicts registry entries whose retention policy has
// expired. Anonymous connections live for a fixed window from open;
// authenticated connections live as long as the user is demonstrably
// active, decoupling socket lifetime from page-visibility heuristics.
type LifecycleManager struct {
	registry *Registry
	users    UserActivitySource
	presence PresenceRecorder

	anonymousTTL     time.Duration
	authenticatedTTL time.Duration

	logger *slog.Logger
}

func NewLifecycleManager(
	registry *Registry,
	users UserActivitySource,
	presence PresenceRecorder,
	anonymousTTL, authenticatedTTL time.Duration,
	logger *slog.Logger,
) *LifecycleManager {
	if presence == nil {
		presence = nopPresence{}
	}
	return &LifecycleManager{
		registry:         registry,
		users:            users,
		presence:         presence,
		anonymousTTL:     anonymousTTL,
		authenticatedTTL: authenticatedTTL,
		logger:           logger,
	}
}

// Sweep runs one linear pass over the registry and removes every expired
// entry. It is triggered on each accepted connection rather than on a
// timer, so under low connection churn entries can outlive their nominal
// TTL.
func (m *LifecycleManager) Sweep(ctx context.Context, now time.Time) {
	var expired []*Connection
	for _, conn := range m.registry.All() {
		if m.expired(ctx, conn, now) {
			expired = append(expired, conn)
		}
	}
	for _, conn := range expired {
		m.logger.Info("evicting stale connection",
			"connectionID", conn.ID, "userID", conn.UserID, "openedAt", conn.OpenedAt)
		m.registry.Remove(conn.ID)
		if conn.Authenticated() {
			m.presence.UserDisconnected(ctx, conn.UserID)
		}
	}
}

func (m *LifecycleManager) expired(ctx context.Context, conn *Connection, now time.Time) bool {
	if !conn.Authenticated() {
		return !conn.OpenedAt.Add(m.anonymousTTL).After(now)
	}

	activity, err := m.users.LookupUser(ctx, conn.UserID)
	if err != nil {
		// The user store is unreachable; keep the connection rather than
		// guess.
		m.logger.Error("user lookup failed during sweep",
			"connectionID", conn.ID, "userID", conn.UserID, "error", err)
		return false
	}
	if !activity.Exists {
		return true
	}

	last := activity.LastActivity
	if last.IsZero() {
		last = now
	}
	return !last.Add(m.authenticatedTTL).After(now)
}
