package main

import (
	"context"
	"log"
	"time"

	"plaza-chat/internal/chat"
	"plaza-chat/internal/config"
	"plaza-chat/internal/directory"
	"plaza-chat/internal/domain"
	"plaza-chat/internal/handler"
	"plaza-chat/internal/server"
	"plaza-chat/internal/simulation"
	"plaza-chat/internal/store"
	"plaza-chat/internal/websocket"
	"plaza-chat/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.Server.Environment)
	logger.SetGlobalLogger(l)

	convs := store.NewConversationStore()
	msgs := store.NewMessageStore()
	users := seedDirectory(cfg)
	seedConversations(cfg, convs, msgs)

	mgr := chat.NewManager(convs, msgs, users, l)
	session := chat.NewSession(cfg.Session.ViewerID, convs, msgs, mgr, l)

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	session.SetOnChange(func(snap chat.Snapshot) {
		hub.BroadcastSnapshot(snap)
	})

	var sim *simulation.Runner
	if cfg.Simulation.Enabled {
		sim = simulation.NewRunner(session, cfg.Simulation.MinDelay, cfg.Simulation.MaxDelay, l)
		defer sim.Stop()
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(
		handler.NewSessionHandler(session, sim),
		websocket.NewHandler(hub, session, l),
	)

	if err := srv.Start(); err != nil {
		l.Errorf("server exited with error: %v", err)
	}
}

func seedDirectory(cfg *config.Config) *directory.InMemory {
	users := directory.NewInMemory()
	users.Add(domain.User{ID: cfg.Session.ViewerID, Name: cfg.Session.ViewerName})
	users.Add(domain.User{ID: "2", Name: "Maya Lin", AvatarURL: "https://cdn.plaza.dev/avatars/2.png"})
	users.Add(domain.User{ID: "3", Name: "Jonas Berg", AvatarURL: "https://cdn.plaza.dev/avatars/3.png"})
	users.Add(domain.User{ID: "4", Name: "Priya Nair"})
	return users
}

// seedConversations loads a small starter data set so the dev shell has
// something to render before the first simulated burst.
func seedConversations(cfg *config.Config, convs *store.ConversationStore, msgs *store.MessageStore) {
	viewer := cfg.Session.ViewerID
	now := time.Now()

	private := domain.Conversation{
		ID:    "conv-maya",
		Type:  domain.ConversationTypePrivate,
		Title: "Maya Lin",
		Participants: []domain.Participant{
			{UserID: viewer, User: domain.User{ID: viewer, Name: cfg.Session.ViewerName}, JoinedAt: now.Add(-48 * time.Hour), Role: domain.ParticipantRoleMember},
			{UserID: "2", User: domain.User{ID: "2", Name: "Maya Lin"}, JoinedAt: now.Add(-48 * time.Hour), Role: domain.ParticipantRoleMember},
		},
		LastActivity: now.Add(-time.Hour),
		Settings:     domain.DefaultSettings(),
	}
	group := domain.Conversation{
		ID:    "conv-hiking",
		Type:  domain.ConversationTypeGroup,
		Title: "Weekend Hiking Crew",
		Participants: []domain.Participant{
			{UserID: viewer, User: domain.User{ID: viewer, Name: cfg.Session.ViewerName}, JoinedAt: now.Add(-96 * time.Hour), Role: domain.ParticipantRoleOwner},
			{UserID: "3", User: domain.User{ID: "3", Name: "Jonas Berg"}, JoinedAt: now.Add(-96 * time.Hour), Role: domain.ParticipantRoleMember},
			{UserID: "4", User: domain.User{ID: "4", Name: "Priya Nair"}, JoinedAt: now.Add(-72 * time.Hour), Role: domain.ParticipantRoleMember},
		},
		LastActivity: now.Add(-30 * time.Minute),
		Settings:     domain.ConversationSettings{AllowInvites: true, AllowFileSharing: true, AllowReactions: true},
	}

	seedMsgs := []domain.Message{
		{ID: "msg-1", ConversationID: private.ID, SenderID: "2", Content: "Is the bike still available?", Type: domain.MessageTypeText, Status: domain.MessageStatusDelivered, Timestamp: now.Add(-2 * time.Hour)},
		{ID: "msg-2", ConversationID: private.ID, SenderID: "2", Content: "Could pick it up tonight.", Type: domain.MessageTypeText, Status: domain.MessageStatusDelivered, Timestamp: now.Add(-time.Hour)},
		{ID: "msg-3", ConversationID: group.ID, SenderID: "3", Content: "Trailhead at 8, who's in?", Type: domain.MessageTypeText, Status: domain.MessageStatusDelivered, Timestamp: now.Add(-30 * time.Minute)},
	}
	for _, m := range seedMsgs {
		msgs.Append(m)
	}

	last1 := seedMsgs[1]
	private.LastMessage = &last1
	last2 := seedMsgs[2]
	group.LastMessage = &last2

	convs.Upsert(private)
	convs.Upsert(group)
}
