package httpdto

import (
	"plaza-chat/internal/domain"
)

type SendMessageRequest struct {
	Content     string              `json:"content"`
	Type        domain.MessageType  `json:"type"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
}

type CreatePrivateConversationRequest struct {
	UserID string    `json:"user_id" binding:"required"`
	Hint   *UserHint `json:"hint,omitempty"`
}

type UserHint struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (h *UserHint) ToUser() *domain.User {
	if h == nil {
		return nil
	}
	return &domain.User{Name: h.Name, AvatarURL: h.AvatarURL}
}

type ScrollRequest struct {
	AtBottom bool `json:"at_bottom"`
}

type UpdateSettingsRequest struct {
	domain.SettingsPatch
}

type SimulateBurstRequest struct {
	ConversationID string   `json:"conversation_id" binding:"required"`
	SenderID       string   `json:"sender_id" binding:"required"`
	Messages       []string `json:"messages" binding:"required"`
}

type DeleteConversationResponse struct {
	ActiveCleared bool `json:"active_cleared"`
}
