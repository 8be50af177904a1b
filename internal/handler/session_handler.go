package handler

import (
	"net/http"

	"plaza-chat/internal/chat"
	"plaza-chat/internal/domain"
	"plaza-chat/internal/simulation"
	"plaza-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the engine's UI event surface over HTTP for the dev
// shell. One route per inbound event; every response carries the envelope the
// rest of the project uses.
type SessionHandler struct {
	session *chat.Session
	sim     *simulation.Runner
}

func NewSessionHandler(session *chat.Session, sim *simulation.Runner) *SessionHandler {
	return &SessionHandler{session: session, sim: sim}
}

func (h *SessionHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(h.session.Snapshot()))
}

func (h *SessionHandler) SendMessage(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.Type == "" {
		req.Type = domain.MessageTypeText
	}
	msg, err := h.session.SendMessage(req.Content, req.Type, req.Attachments)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(msg))
}

func (h *SessionHandler) CreatePrivateConversation(c *gin.Context) {
	var req httpdto.CreatePrivateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	conv, err := h.session.CreateOrFindConversationWithUser(req.UserID, req.Hint.ToUser())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(conv))
}

func (h *SessionHandler) OpenConversation(c *gin.Context) {
	if err := h.session.OpenConversation(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(h.session.Snapshot()))
}

func (h *SessionHandler) SetScroll(c *gin.Context) {
	var req httpdto.ScrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	h.session.SetScrollAtBottom(req.AtBottom)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) TogglePin(c *gin.Context) {
	if err := h.session.TogglePin(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) ToggleReadStatus(c *gin.Context) {
	if err := h.session.ToggleReadStatus(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) MarkAllRead(c *gin.Context) {
	h.session.MarkAllRead()
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) DeleteConversation(c *gin.Context) {
	activeCleared, err := h.session.DeleteConversation(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.DeleteConversationResponse{ActiveCleared: activeCleared}))
}

func (h *SessionHandler) DismissGroup(c *gin.Context) {
	if err := h.session.DismissGroup(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) ClearHistory(c *gin.Context) {
	if err := h.session.ClearHistory(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) UpdateSettings(c *gin.Context) {
	var req httpdto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if err := h.session.UpdateSettings(c.Param("id"), req.SettingsPatch); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// SimulateBurst schedules inbound messages through the simulator, so delta
// and ordering behavior can be exercised from the dev shell.
func (h *SessionHandler) SimulateBurst(c *gin.Context) {
	if h.sim == nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("simulation disabled", "NOT_FOUND"))
		return
	}
	var req httpdto.SimulateBurstRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	h.sim.ScheduleBurst(req.ConversationID, req.SenderID, req.Messages)
	c.JSON(http.StatusAccepted, httpdto.NewSuccessResponse[any](nil))
}

func (h *SessionHandler) writeError(c *gin.Context, err error) {
	status, resp := httpdto.FromError(err)
	c.JSON(status, resp)
}
