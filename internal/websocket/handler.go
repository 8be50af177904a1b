package websocket

import (
	"encoding/json"
	"net/http"

	"plaza-chat/internal/chat"
	"plaza-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades dev-shell connections and registers them with the hub.
// Each new client gets the current snapshot immediately so it never renders
// an empty state while waiting for the next mutation.
type Handler struct {
	hub      *Hub
	session  *chat.Session
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, session *chat.Session, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		hub:     hub,
		session: session,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(conn)
	h.hub.Register(client)
	h.log.Infof("websocket client %s connected", client.ID)

	if payload, err := json.Marshal(h.session.Snapshot()); err == nil {
		client.Send <- payload
	}

	go client.WriteLoop(c.Request.Context())
	client.ReadLoop()

	h.hub.Unregister(client)
	h.log.Infof("websocket client %s disconnected", client.ID)
}
