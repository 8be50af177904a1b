package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plaza-chat/internal/config"
	"plaza-chat/internal/handler"
	"plaza-chat/internal/middleware"
	"plaza-chat/internal/transport/httpdto"
	"plaza-chat/internal/websocket"
	"plaza-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(session *handler.SessionHandler, ws *websocket.Handler) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	api := s.engine.Group("/v1")
	{
		api.GET("/state", session.State)
		api.POST("/messages", session.SendMessage)
		api.POST("/scroll", session.SetScroll)
		api.POST("/read-all", session.MarkAllRead)
		api.POST("/simulate", session.SimulateBurst)

		conversations := api.Group("/conversations")
		{
			conversations.POST("", session.CreatePrivateConversation)
			conversations.POST("/:id/open", session.OpenConversation)
			conversations.POST("/:id/pin", session.TogglePin)
			conversations.POST("/:id/read", session.ToggleReadStatus)
			conversations.POST("/:id/dismiss", session.DismissGroup)
			conversations.POST("/:id/clear", session.ClearHistory)
			conversations.PATCH("/:id/settings", session.UpdateSettings)
			conversations.DELETE("/:id", session.DeleteConversation)
		}
	}

	s.engine.GET("/ws", ws.Handle)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.Server.Port)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
