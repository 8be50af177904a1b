package chat

import (
	"sort"
	"time"

	"plaza-chat/internal/directory"
	"plaza-chat/internal/domain"
	"plaza-chat/internal/store"
	plaza_errors "plaza-chat/pkg/errors"
	"plaza-chat/pkg/logger"

	"github.com/google/uuid"
)

// Manager owns conversation lifecycle: create-or-find, sends, read cursors,
// pins, dismiss, clear and delete. All mutations go through the stores; every
// operation on an unknown conversation id returns ErrNotFound.
type Manager struct {
	convs *store.ConversationStore
	msgs  *store.MessageStore
	users directory.Lookup
	log   *logger.Logger
	now   func() time.Time
}

func NewManager(convs *store.ConversationStore, msgs *store.MessageStore, users directory.Lookup, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		convs: convs,
		msgs:  msgs,
		users: users,
		log:   log,
		now:   time.Now,
	}
}

// CreateOrFindPrivate returns the private conversation with targetUserID,
// creating it when absent. The find-before-create check makes creation
// idempotent: one private conversation per user pair. When the directory
// cannot resolve the target, a placeholder profile is synthesized from the
// hint or the id. The second return reports whether a conversation was
// created.
func (m *Manager) CreateOrFindPrivate(localUserID, targetUserID string, hint *domain.User) (domain.Conversation, bool, error) {
	if localUserID == "" || targetUserID == "" {
		return domain.Conversation{}, false, plaza_errors.ErrInvalidInput
	}
	if existing, ok := m.convs.FindPrivateWith(localUserID, targetUserID); ok {
		return existing, false, nil
	}

	target := m.resolveOrPlaceholder(targetUserID, hint)
	local := m.resolveOrPlaceholder(localUserID, nil)
	now := m.now()

	conv := domain.Conversation{
		ID:     uuid.NewString(),
		Type:   domain.ConversationTypePrivate,
		Title:  target.Name,
		Avatar: target.AvatarURL,
		Participants: []domain.Participant{
			{UserID: local.ID, User: local, JoinedAt: now, Role: domain.ParticipantRoleMember},
			{UserID: target.ID, User: target, JoinedAt: now, Role: domain.ParticipantRoleMember},
		},
		LastActivity: now,
		Settings:     domain.DefaultSettings(),
	}
	m.convs.Upsert(conv)
	m.log.Infof("created private conversation %s with user %s", conv.ID, targetUserID)
	return conv, true, nil
}

func (m *Manager) resolveOrPlaceholder(userID string, hint *domain.User) domain.User {
	if u, ok := m.users.Resolve(userID); ok {
		return u
	}
	u := domain.User{ID: userID, Name: "User " + userID}
	if hint != nil {
		if hint.Name != "" {
			u.Name = hint.Name
		}
		u.AvatarURL = hint.AvatarURL
	}
	return u
}

// SendMessage appends a message and updates the conversation's denormalized
// LastMessage/LastActivity. A pinned conversation gets its PinnedAt refreshed
// so new activity bumps it to the top of the pinned group.
func (m *Manager) SendMessage(conversationID, senderID, content string, msgType domain.MessageType, attachments []domain.Attachment) (domain.Message, error) {
	conv, ok := m.convs.Get(conversationID)
	if !ok {
		return domain.Message{}, plaza_errors.ErrNotFound
	}
	now := m.now()
	msg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           msgType,
		Status:         domain.MessageStatusSent,
		Timestamp:      now,
		Attachments:    attachments,
	}
	m.msgs.Append(msg)

	stored := msg.Clone()
	conv.LastMessage = &stored
	conv.LastActivity = now
	if conv.IsPinned {
		conv.PinnedAt = plaza_errors.TimePtr(now)
	}
	m.convs.Upsert(conv)
	return msg, nil
}

// MarkRead moves the viewer's read cursor to at. Only the named viewer's
// participant entry is touched.
func (m *Manager) MarkRead(conversationID, viewerID string, at time.Time) error {
	return m.convs.SetParticipantLastRead(conversationID, viewerID, at)
}

// MarkUnread synthesizes a read cursor that leaves exactly the latest
// non-viewer message unread. With a single eligible message the cursor lands
// one millisecond before it; with none this is a no-op by contract.
func (m *Manager) MarkUnread(conversationID, viewerID string) error {
	if _, ok := m.convs.Get(conversationID); !ok {
		return plaza_errors.ErrNotFound
	}
	var eligible []domain.Message
	for _, msg := range m.msgs.ListByConversation(conversationID) {
		if msg.SenderID != viewerID {
			eligible = append(eligible, msg)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Timestamp.Before(eligible[j].Timestamp)
	})
	var cursor time.Time
	if len(eligible) == 1 {
		cursor = eligible[0].Timestamp.Add(-time.Millisecond)
	} else {
		cursor = eligible[len(eligible)-2].Timestamp
	}
	return m.convs.SetParticipantLastRead(conversationID, viewerID, cursor)
}

// MarkAllRead moves the viewer's cursor in every conversation they belong to.
func (m *Manager) MarkAllRead(viewerID string, at time.Time) {
	for _, conv := range m.convs.List() {
		if _, ok := conv.Participant(viewerID); ok {
			_ = m.convs.SetParticipantLastRead(conv.ID, viewerID, at)
		}
	}
}

func (m *Manager) TogglePin(conversationID string, at time.Time) error {
	conv, ok := m.convs.Get(conversationID)
	if !ok {
		return plaza_errors.ErrNotFound
	}
	if conv.IsPinned {
		conv.IsPinned = false
		conv.PinnedAt = nil
	} else {
		conv.IsPinned = true
		conv.PinnedAt = plaza_errors.TimePtr(at)
	}
	m.convs.Upsert(conv)
	return nil
}

// DismissGroup marks a group conversation dismissed. The record and its
// messages stay; dismissal is a terminal flag with audit fields, not a
// delete.
func (m *Manager) DismissGroup(conversationID, byUserID string) error {
	conv, ok := m.convs.Get(conversationID)
	if !ok {
		return plaza_errors.ErrNotFound
	}
	if conv.Type != domain.ConversationTypeGroup {
		return plaza_errors.ErrNotGroup
	}
	conv.IsDismissed = true
	conv.DismissedBy = byUserID
	conv.DismissedAt = plaza_errors.NowPtr()
	m.convs.Upsert(conv)
	m.log.Infof("group %s dismissed by %s", conversationID, byUserID)
	return nil
}

// ClearHistory wipes a conversation's messages and resets LastMessage. The
// conversation itself survives; unread counts derive to zero once the
// messages are gone.
func (m *Manager) ClearHistory(conversationID string) error {
	conv, ok := m.convs.Get(conversationID)
	if !ok {
		return plaza_errors.ErrNotFound
	}
	m.msgs.Clear(conversationID)
	conv.LastMessage = nil
	m.convs.Upsert(conv)
	return nil
}

// Delete hard-removes the conversation from the store.
func (m *Manager) Delete(conversationID string) error {
	return m.convs.Remove(conversationID)
}

func (m *Manager) UpdateSettings(conversationID string, patch domain.SettingsPatch) error {
	return m.convs.UpdateSettings(conversationID, patch)
}

// WithClock overrides the manager's time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}
