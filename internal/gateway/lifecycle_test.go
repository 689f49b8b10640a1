package gateway

import (
	"context"
	"errors"
	"testing"
	"time"
)

const (
	testAnonTTL = 10 * time.Minute
	testAuthTTL = 2 * time.Hour
)

func newTestLifecycle(registry *Registry, users *fakeUsers) *LifecycleManager {
	if users == nil {
		users = &fakeUsers{users: map[string]UserActivity{}}
	}
	return NewLifecycleManager(registry, users, nil, testAnonTTL, testAuthTTL, testLogger())
}

func TestSweepEvictsExpiredAnonymous(t *testing.T) {
	registry := NewRegistry(testLogger())
	opened := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(opened)
	sender := &fakeSender{}
	registry.Register("anon", sender, "")

	manager := newTestLifecycle(registry, nil)

	// Still present just before the TTL.
	manager.Sweep(context.Background(), opened.Add(testAnonTTL-time.Second))
	if registry.Len() != 1 {
		t.Fatal("connection evicted before its TTL")
	}

	// Gone at the TTL boundary.
	manager.Sweep(context.Background(), opened.Add(testAnonTTL))
	if registry.Len() != 0 {
		t.Fatal("connection should be evicted at its TTL")
	}
	if !sender.isClosed() {
		t.Error("eviction must close the handle")
	}
}

func TestSweepKeepsActiveAuthenticated(t *testing.T) {
	registry := NewRegistry(testLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(now.Add(-24 * time.Hour))
	registry.Register("abc", &fakeSender{}, "42")

	users := &fakeUsers{users: map[string]UserActivity{
		"42": {Exists: true, LastActivity: now.Add(-time.Minute)},
	}}
	manager := newTestLifecycle(registry, users)

	// An old socket stays alive while the user is active elsewhere, even
	// long past the anonymous window.
	manager.Sweep(context.Background(), now)
	if registry.Len() != 1 {
		t.Fatal("active authenticated connection must survive")
	}
}

func TestSweepEvictsIdleAuthenticated(t *testing.T) {
	registry := NewRegistry(testLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(now)
	registry.Register("abc", &fakeSender{}, "42")

	users := &fakeUsers{users: map[string]UserActivity{
		"42": {Exists: true, LastActivity: now.Add(-testAuthTTL - time.Minute)},
	}}
	manager := newTestLifecycle(registry, users)

	manager.Sweep(context.Background(), now)
	if registry.Len() != 0 {
		t.Fatal("idle authenticated connection should be evicted")
	}
}

func TestSweepEvictsDeletedUser(t *testing.T) {
	registry := NewRegistry(testLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(now)
	registry.Register("abc", &fakeSender{}, "42")

	// No entry for user 42: the account is gone, eviction is immediate
	// regardless of any timestamp.
	manager := newTestLifecycle(registry, &fakeUsers{users: map[string]UserActivity{}})

	manager.Sweep(context.Background(), now)
	if registry.Len() != 0 {
		t.Fatal("connection of a deleted user should be evicted")
	}
}

func TestSweepDefaultsMissingActivityToNow(t *testing.T) {
	registry := NewRegistry(testLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(now.Add(-24 * time.Hour))
	registry.Register("abc", &fakeSender{}, "42")

	// User exists but carries no activity timestamp; treated as active now.
	users := &fakeUsers{users: map[string]UserActivity{
		"42": {Exists: true},
	}}
	manager := newTestLifecycle(registry, users)

	manager.Sweep(context.Background(), now)
	if registry.Len() != 1 {
		t.Fatal("user without an activity timestamp must be treated as active")
	}
}

func TestSweepKeepsConnectionWhenLookupFails(t *testing.T) {
	registry := NewRegistry(testLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(now)
	registry.Register("abc", &fakeSender{}, "42")

	manager := newTestLifecycle(registry, &fakeUsers{err: errors.New("store down")})

	manager.Sweep(context.Background(), now)
	if registry.Len() != 1 {
		t.Fatal("lookup failure must not evict")
	}
}

func TestSweepRecordsPresenceOnEviction(t *testing.T) {
	registry := NewRegistry(testLogger())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = fixedNow(now)
	registry.Register("abc", &fakeSender{}, "42")
	registry.Register("anon", &fakeSender{}, "")

	presence := newFakePresence()
	manager := NewLifecycleManager(
		registry,
		&fakeUsers{users: map[string]UserActivity{}},
		presence,
		testAnonTTL, testAuthTTL,
		testLogger(),
	)

	manager.Sweep(context.Background(), now.Add(testAnonTTL))
	if presence.disconnected["42"] != 1 {
		t.Errorf("expected one disconnect recording for user 42, got %d", presence.disconnected["42"])
	}
	if len(presence.disconnected) != 1 {
		t.Errorf("anonymous eviction must not record presence, got %v", presence.disconnected)
	}
}
