package directory

import (
	"sync"

	"plaza-chat/internal/domain"
)

// Lookup resolves user profiles for participant snapshots. The real app backs
// this with the profile service; the engine only depends on the interface.
type Lookup interface {
	Resolve(userID string) (domain.User, bool)
}

type InMemory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[string]domain.User)}
}

func (d *InMemory) Add(u domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *InMemory) Resolve(userID string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[userID]
	return u, ok
}
