package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSender records everything pushed through it. Safe for use from the
// gateway loop goroutine and the test goroutine at once.
type fakeSender struct {
	mu     sync.Mutex
	sent   []Envelope
	closed bool
	broken bool
}

func (f *fakeSender) Send(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken || f.closed {
		return ErrConnectionBroken
	}
	env, ok := v.(Envelope)
	if !ok {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, env)
	return nil
}

func (f *fakeSender) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSender) envelopes() []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Envelope, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeSender) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeUsers is an in-memory UserActivitySource.
type fakeUsers struct {
	users map[string]UserActivity
	err   error
}

func (f *fakeUsers) LookupUser(_ context.Context, userID string) (UserActivity, error) {
	if f.err != nil {
		return UserActivity{}, f.err
	}
	activity, ok := f.users[userID]
	if !ok {
		return UserActivity{Exists: false}, nil
	}
	return activity, nil
}

// fakeState is a SystemStateSource with settable flags.
type fakeState struct {
	maintenance bool
	soft        bool
	soon        bool
}

func (f *fakeState) Maintenance(context.Context) bool  { return f.maintenance }
func (f *fakeState) SoftDisabled(context.Context) bool { return f.soft }
func (f *fakeState) SoonDisabled(context.Context) bool { return f.soon }

// fakePresence counts connect/disconnect recordings per user.
type fakePresence struct {
	mu           sync.Mutex
	connected    map[string]int
	disconnected map[string]int
}

func newFakePresence() *fakePresence {
	return &fakePresence{
		connected:    make(map[string]int),
		disconnected: make(map[string]int),
	}
}

func (f *fakePresence) UserConnected(_ context.Context, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected[userID]++
}

func (f *fakePresence) UserDisconnected(_ context.Context, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected[userID]++
}

func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestRouter(registry *Registry, state SystemStateSource) *Router {
	if state == nil {
		state = &fakeState{}
	}
	return NewRouter(registry, NewEndpointCatalog(), NewSystemStateNotifier(state), nil, testLogger())
}
