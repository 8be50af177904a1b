package store

import (
	"sync"

	"plaza-chat/internal/domain"
)

// MessageStore keeps the append-only message sequence per conversation.
// Appends never reorder existing messages; timestamps are ascending within a
// conversation but carry no global order across conversations.
type MessageStore struct {
	mu             sync.RWMutex
	byConversation map[string][]domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{byConversation: make(map[string][]domain.Message)}
}

func (s *MessageStore) Append(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byConversation[msg.ConversationID] = append(s.byConversation[msg.ConversationID], msg.Clone())
}

// ListByConversation returns a snapshot copy in append order.
func (s *MessageStore) ListByConversation(conversationID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.byConversation[conversationID]
	out := make([]domain.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

func (s *MessageStore) Count(conversationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConversation[conversationID])
}

// Clear removes all messages for one conversation. Other conversations are
// untouched.
func (s *MessageStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byConversation, conversationID)
}

// UpdateStatus transitions a single message's delivery status. Status is the
// only mutable message field.
func (s *MessageStore) UpdateStatus(conversationID, messageID string, status domain.MessageStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.byConversation[conversationID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			msgs[i].Status = status
			return true
		}
	}
	return false
}
