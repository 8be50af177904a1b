package chat

import (
	"testing"
	"time"

	"plaza-chat/internal/directory"
	"plaza-chat/internal/store"
	"plaza-chat/pkg/logger"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type testEnv struct {
	convs *store.ConversationStore
	msgs  *store.MessageStore
	users *directory.InMemory
	mgr   *Manager
	clock *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := &fakeClock{t: base}
	convs := store.NewConversationStore()
	msgs := store.NewMessageStore()
	users := directory.NewInMemory()
	mgr := NewManager(convs, msgs, users, logger.NewNop()).WithClock(clock.now)
	return &testEnv{convs: convs, msgs: msgs, users: users, mgr: mgr, clock: clock}
}

func (e *testEnv) newSession(t *testing.T, viewerID string) *Session {
	t.Helper()
	return NewSession(viewerID, e.convs, e.msgs, e.mgr, logger.NewNop()).WithClock(e.clock.now)
}
