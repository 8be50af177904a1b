package domain

import (
	"time"
)

type ConversationSettings struct {
	AllowInvites      bool `json:"allow_invites"`
	AllowFileSharing  bool `json:"allow_file_sharing"`
	AllowReactions    bool `json:"allow_reactions"`
	MuteNotifications bool `json:"mute_notifications"`
}

// DefaultSettings is what new private conversations start with.
func DefaultSettings() ConversationSettings {
	return ConversationSettings{AllowFileSharing: true}
}

// SettingsPatch merges into ConversationSettings field by field. Pointer
// fields make unknown keys unrepresentable and leave untouched keys intact.
type SettingsPatch struct {
	AllowInvites      *bool `json:"allow_invites,omitempty"`
	AllowFileSharing  *bool `json:"allow_file_sharing,omitempty"`
	AllowReactions    *bool `json:"allow_reactions,omitempty"`
	MuteNotifications *bool `json:"mute_notifications,omitempty"`
}

func (p SettingsPatch) Apply(s ConversationSettings) ConversationSettings {
	if p.AllowInvites != nil {
		s.AllowInvites = *p.AllowInvites
	}
	if p.AllowFileSharing != nil {
		s.AllowFileSharing = *p.AllowFileSharing
	}
	if p.AllowReactions != nil {
		s.AllowReactions = *p.AllowReactions
	}
	if p.MuteNotifications != nil {
		s.MuteNotifications = *p.MuteNotifications
	}
	return s
}

type Participant struct {
	UserID     string          `json:"user_id"`
	User       User            `json:"user"`
	JoinedAt   time.Time       `json:"joined_at"`
	Role       ParticipantRole `json:"role"`
	IsTyping   bool            `json:"is_typing"`
	LastReadAt *time.Time      `json:"last_read_at,omitempty"`
}

type Conversation struct {
	ID           string               `json:"id"`
	Type         ConversationType     `json:"type"`
	Title        string               `json:"title"`
	Avatar       string               `json:"avatar,omitempty"`
	Participants []Participant        `json:"participants"`
	LastMessage  *Message             `json:"last_message,omitempty"`
	LastActivity time.Time            `json:"last_activity"`
	IsPinned     bool                 `json:"is_pinned"`
	PinnedAt     *time.Time           `json:"pinned_at,omitempty"`
	IsArchived   bool                 `json:"is_archived"`
	IsMuted      bool                 `json:"is_muted"`
	IsDismissed  bool                 `json:"is_dismissed"`
	DismissedBy  string               `json:"dismissed_by,omitempty"`
	DismissedAt  *time.Time           `json:"dismissed_at,omitempty"`
	Settings     ConversationSettings `json:"settings"`
}

// Participant returns the entry for userID. At most one entry exists per user.
func (c Conversation) Participant(userID string) (Participant, bool) {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// IsPrivateWith reports whether c is the private conversation between the two
// users: exactly two participants containing both ids.
func (c Conversation) IsPrivateWith(userID1, userID2 string) bool {
	if c.Type != ConversationTypePrivate || len(c.Participants) != 2 {
		return false
	}
	_, ok1 := c.Participant(userID1)
	_, ok2 := c.Participant(userID2)
	return ok1 && ok2
}

// Clone returns a deep copy. Store reads hand out clones so observers holding
// a previous snapshot never see a half-applied mutation.
func (c Conversation) Clone() Conversation {
	out := c
	out.Participants = make([]Participant, len(c.Participants))
	for i, p := range c.Participants {
		cp := p
		if p.LastReadAt != nil {
			t := *p.LastReadAt
			cp.LastReadAt = &t
		}
		out.Participants[i] = cp
	}
	if c.LastMessage != nil {
		m := c.LastMessage.Clone()
		out.LastMessage = &m
	}
	if c.PinnedAt != nil {
		t := *c.PinnedAt
		out.PinnedAt = &t
	}
	if c.DismissedAt != nil {
		t := *c.DismissedAt
		out.DismissedAt = &t
	}
	return out
}
