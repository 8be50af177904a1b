package chat

import (
	"sync"
	"time"

	"plaza-chat/internal/domain"
	"plaza-chat/internal/store"
	plaza_errors "plaza-chat/pkg/errors"
	"plaza-chat/pkg/logger"
)

// ConversationView pairs a conversation snapshot with its derived unread
// count for the session's viewer.
type ConversationView struct {
	domain.Conversation
	UnreadCount int `json:"unread_count"`
}

// Snapshot is the render surface handed to observers after every mutation.
// ActiveLastReadMessageID anchors the "new messages" divider; empty when the
// viewer has no read cursor yet.
type Snapshot struct {
	Conversations           []ConversationView `json:"conversations"`
	ActiveConversationID    string             `json:"active_conversation_id,omitempty"`
	ActiveMessages          []domain.Message   `json:"active_messages,omitempty"`
	ActiveLastReadMessageID string             `json:"active_last_read_message_id,omitempty"`
	HasRealtimeNewMessages  bool               `json:"has_realtime_new_messages"`
	RealtimeNewMessages     []domain.Message   `json:"realtime_new_messages,omitempty"`
}

// Session is the engine surface for one local viewer: active conversation,
// scroll position, realtime deltas and display ordering over the two stores.
//
// Display order is recomputed only on activity triggers (send, receive, pin
// toggle, create, delete). A pure read-status toggle keeps the list frozen so
// conversations don't jump position just because a badge changed; the order
// catches up on the next activity event.
//
// A mutex serializes all operations, standing in for the host UI event loop.
type Session struct {
	mu       sync.Mutex
	viewerID string
	convs    *store.ConversationStore
	msgs     *store.MessageStore
	mgr      *Manager
	tracker  *DeltaTracker
	order    []string
	log      *logger.Logger
	now      func() time.Time

	// onChange receives a snapshot after each mutation, under the session
	// lock. It must not call back into the session.
	onChange func(Snapshot)
}

func NewSession(viewerID string, convs *store.ConversationStore, msgs *store.MessageStore, mgr *Manager, log *logger.Logger) *Session {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Session{
		viewerID: viewerID,
		convs:    convs,
		msgs:     msgs,
		mgr:      mgr,
		tracker:  NewDeltaTracker(),
		log:      log,
		now:      time.Now,
	}
	s.resortLocked()
	return s
}

func (s *Session) SetOnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Session) ViewerID() string {
	return s.viewerID
}

func (s *Session) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.activeID
}

// SendMessage sends as the viewer into the active conversation.
func (s *Session) SendMessage(content string, msgType domain.MessageType, attachments []domain.Attachment) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker.activeID == "" {
		return domain.Message{}, plaza_errors.ErrNoActiveConversation
	}
	msg, err := s.mgr.SendMessage(s.tracker.activeID, s.viewerID, content, msgType, attachments)
	if err != nil {
		return domain.Message{}, err
	}
	s.resortLocked()
	s.notifyLocked()
	return msg, nil
}

// ReceiveMessage injects an inbound message from another participant, e.g.
// from the burst simulator. The conversation-existence check inside the
// manager is the guard that keeps late deliveries from resurrecting a
// deleted conversation.
func (s *Session) ReceiveMessage(conversationID, senderID, content string, msgType domain.MessageType, attachments []domain.Attachment) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, err := s.mgr.SendMessage(conversationID, senderID, content, msgType, attachments)
	if err != nil {
		return domain.Message{}, err
	}
	s.tracker.Observe(msg, s.viewerID, s.msgs.Count(conversationID))
	s.resortLocked()
	s.notifyLocked()
	return msg, nil
}

// OpenConversation makes a conversation active. The delta tracker is re-seeded
// from the current message count, so deltas never survive a switch-away and
// pre-existing messages are never reported as new. Opening marks the
// conversation read; that alone does not reorder the list.
func (s *Session) OpenConversation(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs.Get(conversationID); !ok {
		return plaza_errors.ErrNotFound
	}
	s.tracker.Activate(conversationID, s.msgs.Count(conversationID))
	_ = s.mgr.MarkRead(conversationID, s.viewerID, s.now())
	s.notifyLocked()
	return nil
}

// SetScrollAtBottom tracks the viewer's scroll position in the active
// conversation. Reaching the bottom clears realtime deltas and marks read.
func (s *Session) SetScrollAtBottom(atBottom bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.SetAtBottom(atBottom)
	if atBottom && s.tracker.activeID != "" {
		_ = s.mgr.MarkRead(s.tracker.activeID, s.viewerID, s.now())
	}
	s.notifyLocked()
}

func (s *Session) TogglePin(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mgr.TogglePin(conversationID, s.now()); err != nil {
		return err
	}
	s.resortLocked()
	s.notifyLocked()
	return nil
}

// ToggleReadStatus flips between read and unread. Deliberately no re-sort:
// the list order stays frozen until the next activity event.
func (s *Session) ToggleReadStatus(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs.Get(conversationID)
	if !ok {
		return plaza_errors.ErrNotFound
	}
	var err error
	if UnreadCount(conv, s.msgs.ListByConversation(conversationID), s.viewerID) > 0 {
		err = s.mgr.MarkRead(conversationID, s.viewerID, s.now())
	} else {
		err = s.mgr.MarkUnread(conversationID, s.viewerID)
	}
	if err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

func (s *Session) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.MarkAllRead(s.viewerID, s.now())
	s.notifyLocked()
}

// CreateOrFindConversationWithUser returns the private conversation with the
// target user, creating it on first use.
func (s *Session) CreateOrFindConversationWithUser(targetUserID string, hint *domain.User) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, created, err := s.mgr.CreateOrFindPrivate(s.viewerID, targetUserID, hint)
	if err != nil {
		return domain.Conversation{}, err
	}
	if created {
		s.resortLocked()
		s.notifyLocked()
	}
	return conv, nil
}

// DeleteConversation hard-removes a conversation. The boolean reports whether
// it was the active one, in which case the active selection has been cleared
// and the caller must drop its own reference.
func (s *Session) DeleteConversation(conversationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mgr.Delete(conversationID); err != nil {
		return false, err
	}
	activeCleared := s.tracker.activeID == conversationID
	if activeCleared {
		s.tracker.Deactivate()
	}
	s.resortLocked()
	s.notifyLocked()
	return activeCleared, nil
}

func (s *Session) DismissGroup(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mgr.DismissGroup(conversationID, s.viewerID); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

func (s *Session) ClearHistory(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mgr.ClearHistory(conversationID); err != nil {
		return err
	}
	// The active conversation's message count just dropped to zero; without a
	// rebase the stale baseline would swallow the next inbound messages.
	if s.tracker.activeID == conversationID {
		s.tracker.Rebase(0)
	}
	s.notifyLocked()
	return nil
}

func (s *Session) UpdateSettings(conversationID string, patch domain.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mgr.UpdateSettings(conversationID, patch); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// Snapshot returns the current render surface.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Conversations:          s.conversationsLocked(),
		ActiveConversationID:   s.tracker.activeID,
		HasRealtimeNewMessages: s.tracker.HasNew(),
		RealtimeNewMessages:    s.tracker.New(),
	}
	if s.tracker.activeID != "" {
		snap.ActiveMessages = s.msgs.ListByConversation(s.tracker.activeID)
		if conv, ok := s.convs.Get(s.tracker.activeID); ok {
			if id, found := LastReadMessageID(conv, snap.ActiveMessages, s.viewerID); found {
				snap.ActiveLastReadMessageID = id
			}
		}
	}
	return snap
}

// conversationsLocked renders the store through the frozen order. Ids that
// joined the store since the last re-sort (there should be none, since
// creation triggers one) are appended at the end.
func (s *Session) conversationsLocked() []ConversationView {
	byID := make(map[string]domain.Conversation)
	for _, c := range s.convs.List() {
		byID[c.ID] = c
	}
	views := make([]ConversationView, 0, len(byID))
	seen := make(map[string]bool, len(s.order))
	for _, id := range s.order {
		c, ok := byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		views = append(views, s.viewLocked(c))
	}
	for _, c := range s.convs.List() {
		if !seen[c.ID] {
			views = append(views, s.viewLocked(c))
		}
	}
	return views
}

func (s *Session) viewLocked(c domain.Conversation) ConversationView {
	return ConversationView{
		Conversation: c,
		UnreadCount:  UnreadCount(c, s.msgs.ListByConversation(c.ID), s.viewerID),
	}
}

func (s *Session) resortLocked() {
	sorted := SortConversations(s.convs.List())
	s.order = make([]string, len(sorted))
	for i, c := range sorted {
		s.order[i] = c.ID
	}
}

func (s *Session) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

// WithClock overrides the session's time source, for tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}
