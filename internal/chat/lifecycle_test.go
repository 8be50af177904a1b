package chat

import (
	"testing"
	"time"

	"plaza-chat/internal/domain"
	plaza_errors "plaza-chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrFindPrivateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.users.Add(domain.User{ID: "2", Name: "Maya Lin"})

	first, created, err := env.mgr.CreateOrFindPrivate("1", "2", nil)
	require.NoError(t, err)
	require.True(t, created)
	require.Len(t, first.Participants, 2)
	assert.Equal(t, domain.ConversationTypePrivate, first.Type)
	assert.Equal(t, "Maya Lin", first.Title)

	second, created, err := env.mgr.CreateOrFindPrivate("1", "2", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.convs.Len())
}

func TestCreateOrFindPrivateSynthesizesPlaceholder(t *testing.T) {
	env := newTestEnv(t)

	created, _, err := env.mgr.CreateOrFindPrivate("1", "42", &domain.User{Name: "Alice"})
	require.NoError(t, err)

	target, ok := created.Participant("42")
	require.True(t, ok)
	assert.Equal(t, "Alice", target.User.Name)
	assert.Equal(t, "42", target.User.ID)
	assert.Equal(t, domain.ParticipantRoleMember, target.Role)

	// Same target again: same conversation, still exactly one.
	again, wasCreated, err := env.mgr.CreateOrFindPrivate("1", "42", &domain.User{Name: "Alice"})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, 1, env.convs.Len())
}

func TestCreateOrFindPrivateNoHintFallsBackToID(t *testing.T) {
	env := newTestEnv(t)
	created, _, err := env.mgr.CreateOrFindPrivate("1", "77", nil)
	require.NoError(t, err)
	target, _ := created.Participant("77")
	assert.Equal(t, "User 77", target.User.Name)
}

func TestCreateOrFindPrivateDefaults(t *testing.T) {
	env := newTestEnv(t)
	created, _, err := env.mgr.CreateOrFindPrivate("1", "2", nil)
	require.NoError(t, err)
	assert.True(t, created.Settings.AllowFileSharing)
	assert.False(t, created.Settings.AllowInvites)
	assert.False(t, created.IsPinned)
	assert.False(t, created.IsArchived)
	assert.False(t, created.IsMuted)
}

func TestSendMessageUpdatesDenormalizedFields(t *testing.T) {
	env := newTestEnv(t)
	c := conv("c1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)

	env.clock.advance(time.Minute)
	sent, err := env.mgr.SendMessage("c1", "1", "still available?", domain.MessageTypeText, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageStatusSent, sent.Status)

	stored, _ := env.convs.Get("c1")
	require.NotNil(t, stored.LastMessage)
	assert.Equal(t, sent.ID, stored.LastMessage.ID)
	assert.Equal(t, sent.Timestamp, stored.LastActivity)

	listed := env.msgs.ListByConversation("c1")
	require.Len(t, listed, 1)
	assert.Equal(t, sent.ID, listed[0].ID)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.mgr.SendMessage("missing", "1", "hi", domain.MessageTypeText, nil)
	assert.ErrorIs(t, err, plaza_errors.ErrNotFound)
}

func TestSendMessageWithAttachment(t *testing.T) {
	env := newTestEnv(t)
	env.convs.Upsert(conv("c1", participant("1", nil), participant("2", nil)))

	att := domain.Attachment{ID: "a1", Type: domain.AttachmentTypeImage, URL: "https://cdn.plaza.dev/a1.jpg", Name: "a1.jpg", Size: 2048, MimeType: "image/jpeg"}
	sent, err := env.mgr.SendMessage("c1", "1", "", domain.MessageTypeImage, []domain.Attachment{att})
	require.NoError(t, err)
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "a1", sent.Attachments[0].ID)
}

func TestTogglePin(t *testing.T) {
	env := newTestEnv(t)
	env.convs.Upsert(conv("c1", participant("1", nil)))

	require.NoError(t, env.mgr.TogglePin("c1", env.clock.now()))
	stored, _ := env.convs.Get("c1")
	assert.True(t, stored.IsPinned)
	require.NotNil(t, stored.PinnedAt)
	assert.Equal(t, env.clock.now(), *stored.PinnedAt)

	require.NoError(t, env.mgr.TogglePin("c1", env.clock.now()))
	stored, _ = env.convs.Get("c1")
	assert.False(t, stored.IsPinned)
	assert.Nil(t, stored.PinnedAt)

	assert.ErrorIs(t, env.mgr.TogglePin("missing", env.clock.now()), plaza_errors.ErrNotFound)
}

func TestDismissGroup(t *testing.T) {
	env := newTestEnv(t)
	g := conv("g1", participant("1", nil), participant("2", nil), participant("3", nil))
	g.Type = domain.ConversationTypeGroup
	env.convs.Upsert(g)
	env.msgs.Append(msg("m1", "g1", "2", base))

	require.NoError(t, env.mgr.DismissGroup("g1", "1"))

	stored, ok := env.convs.Get("g1")
	require.True(t, ok, "dismiss must not remove the record")
	assert.True(t, stored.IsDismissed)
	assert.Equal(t, "1", stored.DismissedBy)
	assert.NotNil(t, stored.DismissedAt)
	assert.Equal(t, 1, env.msgs.Count("g1"), "dismiss must not touch messages")
}

func TestDismissRejectsNonGroup(t *testing.T) {
	env := newTestEnv(t)
	env.convs.Upsert(conv("c1", participant("1", nil), participant("2", nil)))
	assert.ErrorIs(t, env.mgr.DismissGroup("c1", "1"), plaza_errors.ErrNotGroup)
	assert.ErrorIs(t, env.mgr.DismissGroup("missing", "1"), plaza_errors.ErrNotFound)
}

func TestClearHistory(t *testing.T) {
	env := newTestEnv(t)
	c := conv("c1", participant("1", nil), participant("2", nil))
	env.convs.Upsert(c)
	env.msgs.Append(msg("m1", "c1", "2", base))
	env.msgs.Append(msg("m2", "c2", "2", base)) // other conversation

	_, err := env.mgr.SendMessage("c1", "2", "one more", domain.MessageTypeText, nil)
	require.NoError(t, err)

	require.NoError(t, env.mgr.ClearHistory("c1"))

	stored, _ := env.convs.Get("c1")
	assert.Nil(t, stored.LastMessage)
	assert.Equal(t, 0, env.msgs.Count("c1"))
	assert.Equal(t, 0, UnreadCount(stored, env.msgs.ListByConversation("c1"), "1"))
	assert.Equal(t, 1, env.msgs.Count("c2"), "other conversations untouched")

	assert.ErrorIs(t, env.mgr.ClearHistory("missing"), plaza_errors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.convs.Upsert(conv("c1", participant("1", nil)))

	require.NoError(t, env.mgr.Delete("c1"))
	_, ok := env.convs.Get("c1")
	assert.False(t, ok)
	assert.ErrorIs(t, env.mgr.Delete("c1"), plaza_errors.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	env.convs.Upsert(conv("c1", participant("1", nil), participant("2", nil)))
	env.convs.Upsert(conv("c2", participant("1", nil), participant("3", nil)))
	env.msgs.Append(msg("m1", "c1", "2", base))
	env.msgs.Append(msg("m2", "c2", "3", base))

	env.clock.advance(time.Minute)
	env.mgr.MarkAllRead("1", env.clock.now())

	for _, id := range []string{"c1", "c2"} {
		stored, _ := env.convs.Get(id)
		assert.Equal(t, 0, UnreadCount(stored, env.msgs.ListByConversation(id), "1"))
	}
}

func TestCreateOrFindPrivateValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.mgr.CreateOrFindPrivate("", "2", nil)
	assert.ErrorIs(t, err, plaza_errors.ErrInvalidInput)
	_, _, err = env.mgr.CreateOrFindPrivate("1", "", nil)
	assert.ErrorIs(t, err, plaza_errors.ErrInvalidInput)
}
