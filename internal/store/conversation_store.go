package store

import (
	"sync"
	"time"

	"plaza-chat/internal/domain"
	plaza_errors "plaza-chat/pkg/errors"
)

// ConversationStore is the in-memory conversation collection for one viewer
// session. Iteration follows insertion order so lookups that must pick a
// canonical first match stay deterministic.
type ConversationStore struct {
	mu    sync.RWMutex
	byID  map[string]domain.Conversation
	order []string
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{byID: make(map[string]domain.Conversation)}
}

func (s *ConversationStore) Upsert(c domain.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.byID[c.ID] = c.Clone()
}

func (s *ConversationStore) Get(id string) (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return domain.Conversation{}, false
	}
	return c.Clone(), true
}

// List returns snapshot copies in insertion order.
func (s *ConversationStore) List() []domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

func (s *ConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Remove hard-deletes a conversation. Distinct from the soft dismiss flag.
func (s *ConversationStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return plaza_errors.ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindPrivateWith returns the private conversation between the two users.
// The first match in insertion order is canonical should a duplicate ever
// slip in.
func (s *ConversationStore) FindPrivateWith(localUserID, otherUserID string) (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		c := s.byID[id]
		if c.IsPrivateWith(localUserID, otherUserID) {
			return c.Clone(), true
		}
	}
	return domain.Conversation{}, false
}

// UpdateSettings merges the patch into the stored settings.
func (s *ConversationStore) UpdateSettings(id string, patch domain.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return plaza_errors.ErrNotFound
	}
	c.Settings = patch.Apply(c.Settings)
	s.byID[id] = c
	return nil
}

// SetParticipantLastRead moves one viewer's read cursor. Other participants'
// cursors are never touched.
func (s *ConversationStore) SetParticipantLastRead(id, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return plaza_errors.ErrNotFound
	}
	updated := c.Clone()
	for i := range updated.Participants {
		if updated.Participants[i].UserID == userID {
			t := at
			updated.Participants[i].LastReadAt = &t
			s.byID[id] = updated
			return nil
		}
	}
	return plaza_errors.ErrNotFound
}
