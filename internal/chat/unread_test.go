package chat

import (
	"testing"
	"time"

	"plaza-chat/internal/domain"
	plaza_errors "plaza-chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func conv(id string, participants ...domain.Participant) domain.Conversation {
	return domain.Conversation{
		ID:           id,
		Type:         domain.ConversationTypePrivate,
		Participants: participants,
		LastActivity: base,
		Settings:     domain.DefaultSettings(),
	}
}

func participant(userID string, lastReadAt *time.Time) domain.Participant {
	return domain.Participant{
		UserID:     userID,
		User:       domain.User{ID: userID, Name: "User " + userID},
		JoinedAt:   base.Add(-time.Hour),
		Role:       domain.ParticipantRoleMember,
		LastReadAt: lastReadAt,
	}
}

func msg(id, convID, senderID string, ts time.Time) domain.Message {
	return domain.Message{
		ID:             id,
		ConversationID: convID,
		SenderID:       senderID,
		Content:        "hello",
		Type:           domain.MessageTypeText,
		Status:         domain.MessageStatusDelivered,
		Timestamp:      ts,
	}
}

func TestUnreadCountNoCursorCountsEverything(t *testing.T) {
	c := conv("c1", participant("1", nil), participant("2", nil))
	msgs := []domain.Message{
		msg("m1", "c1", "2", base),
		msg("m2", "c1", "2", base.Add(time.Minute)),
	}
	assert.Equal(t, 2, UnreadCount(c, msgs, "1"))
}

func TestUnreadCountExcludesOwnMessages(t *testing.T) {
	c := conv("c1", participant("1", nil), participant("2", nil))
	msgs := []domain.Message{
		msg("m1", "c1", "1", base),
		msg("m2", "c1", "2", base.Add(time.Minute)),
		msg("m3", "c1", "1", base.Add(2*time.Minute)),
	}
	assert.Equal(t, 1, UnreadCount(c, msgs, "1"))
	assert.Equal(t, 2, UnreadCount(c, msgs, "2"))
}

func TestUnreadCountRespectsCursor(t *testing.T) {
	cursor := base.Add(time.Minute)
	c := conv("c1", participant("1", &cursor), participant("2", nil))
	msgs := []domain.Message{
		msg("m1", "c1", "2", base),
		msg("m2", "c1", "2", base.Add(time.Minute)), // exactly at cursor: read
		msg("m3", "c1", "2", base.Add(2*time.Minute)),
	}
	assert.Equal(t, 1, UnreadCount(c, msgs, "1"))
}

func TestLastReadMessageID(t *testing.T) {
	cursor := base.Add(time.Minute)
	c := conv("c1", participant("1", &cursor), participant("2", nil))
	msgs := []domain.Message{
		msg("m1", "c1", "2", base),
		msg("m2", "c1", "2", base.Add(time.Minute)),
		msg("m3", "c1", "2", base.Add(2*time.Minute)),
	}
	id, ok := LastReadMessageID(c, msgs, "1")
	require.True(t, ok)
	assert.Equal(t, "m2", id)
}

func TestLastReadMessageIDNoCursor(t *testing.T) {
	c := conv("c1", participant("1", nil), participant("2", nil))
	msgs := []domain.Message{msg("m1", "c1", "2", base)}
	_, ok := LastReadMessageID(c, msgs, "1")
	assert.False(t, ok)
}

// Scenario: two unread messages, mark read, one more arrives.
func TestUnreadLifecycle(t *testing.T) {
	env := newTestEnv(t)
	c := conv("conv1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)
	env.msgs.Append(msg("m1", "conv1", "2", base))
	env.msgs.Append(msg("m2", "conv1", "2", base.Add(time.Minute)))

	count := func() int {
		stored, ok := env.convs.Get("conv1")
		require.True(t, ok)
		return UnreadCount(stored, env.msgs.ListByConversation("conv1"), "1")
	}

	assert.Equal(t, 2, count())

	env.clock.advance(2 * time.Minute)
	require.NoError(t, env.mgr.MarkRead("conv1", "1", env.clock.now()))
	assert.Equal(t, 0, count())

	env.clock.advance(time.Minute)
	_, err := env.mgr.SendMessage("conv1", "2", "anyone there?", domain.MessageTypeText, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count())
}

func TestMarkUnreadLeavesLatestUnread(t *testing.T) {
	env := newTestEnv(t)
	c := conv("c1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)
	env.msgs.Append(msg("m1", "c1", "2", base))
	env.msgs.Append(msg("m2", "c1", "1", base.Add(time.Minute)))
	env.msgs.Append(msg("m3", "c1", "2", base.Add(2*time.Minute)))

	require.NoError(t, env.mgr.MarkUnread("c1", "1"))

	stored, _ := env.convs.Get("c1")
	assert.Equal(t, 1, UnreadCount(stored, env.msgs.ListByConversation("c1"), "1"))
}

func TestMarkUnreadSingleEligibleMessage(t *testing.T) {
	env := newTestEnv(t)
	c := conv("c1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)
	env.msgs.Append(msg("m1", "c1", "2", base))

	require.NoError(t, env.mgr.MarkUnread("c1", "1"))

	stored, _ := env.convs.Get("c1")
	assert.Equal(t, 1, UnreadCount(stored, env.msgs.ListByConversation("c1"), "1"))
	p, ok := stored.Participant("1")
	require.True(t, ok)
	require.NotNil(t, p.LastReadAt)
	assert.Equal(t, base.Add(-time.Millisecond), *p.LastReadAt)
}

func TestMarkUnreadNoEligibleMessagesIsNoop(t *testing.T) {
	env := newTestEnv(t)
	c := conv("c1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)
	env.msgs.Append(msg("m1", "c1", "1", base)) // only the viewer's own message

	require.NoError(t, env.mgr.MarkUnread("c1", "1"))

	stored, _ := env.convs.Get("c1")
	p, _ := stored.Participant("1")
	assert.Nil(t, p.LastReadAt)
	assert.Equal(t, 0, UnreadCount(stored, env.msgs.ListByConversation("c1"), "1"))
}

func TestMarkUnreadUnknownConversation(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.mgr.MarkUnread("missing", "1"), plaza_errors.ErrNotFound)
}

func TestMarkReadOnlyTouchesViewer(t *testing.T) {
	env := newTestEnv(t)
	c := conv("c1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)

	require.NoError(t, env.mgr.MarkRead("c1", "1", base))

	stored, _ := env.convs.Get("c1")
	p1, _ := stored.Participant("1")
	p2, _ := stored.Participant("2")
	require.NotNil(t, p1.LastReadAt)
	assert.Nil(t, p2.LastReadAt)
}
