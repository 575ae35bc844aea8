package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/satyapal28/archive-server/internal/auth"
	"github.com/satyapal28/archive-server/internal/feed"
	"github.com/satyapal28/archive-server/internal/interactions"
	"github.com/satyapal28/archive-server/internal/repositories/post"
	"github.com/satyapal28/archive-server/internal/storage"
	"github.com/satyapal28/archive-server/internal/translator"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Lc           fx.Lifecycle
	Config       *config.Config
	Logger       logger.Logger
	Feed         *feed.Service
	Interactions interactions.Service
	Auth         auth.Client
	Storage      storage.Client
	Translator   translator.Client
	PostRepo     post.Repository
}

type Server struct {
	engine       *gin.Engine
	feed         *feed.Service
	interactions interactions.Service
	auth         auth.Client
	storage      storage.Client
	translator   translator.Client
	posts        post.Repository
	logger       logger.Logger
}

func New(opts Opts) *Server {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:       gin.New(),
		feed:         opts.Feed,
		interactions: opts.Interactions,
		auth:         opts.Auth,
		storage:      opts.Storage,
		translator:   opts.Translator,
		posts:        opts.PostRepo,
		logger:       opts.Logger.WithComponent("HTTP"),
	}
	s.engine.Use(gin.Recovery(), s.requestLog())
	s.registerRoutes()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	opts.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("HTTP server stopped", "error", err)
				}
			}()
			s.logger.Info("HTTP server listening", "addr", httpServer.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})

	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.visitorIdentity())

	api.GET("/feed", s.handleFeed)
	api.GET("/feed/next", s.handleFeedNext)
	api.GET("/photogrid", s.handlePhotoGrid)
	api.GET("/translate", s.handleTranslate)

	api.GET("/posts/:id/stats", s.handleStats)
	api.GET("/posts/:id/comments", s.handleListComments)
	api.POST("/posts/:id/comments", s.handleAddComment)
	api.POST("/posts/:id/like", s.handleToggleLike)

	api.POST("/login", s.handleLogin)

	admin := api.Group("/admin")
	admin.Use(s.requireAdmin())
	admin.POST("/posts", s.handleCreatePost)
	admin.PUT("/posts/:id", s.handleUpdatePost)
	admin.DELETE("/posts/:id", s.handleDeletePost)
	admin.DELETE("/comments/:id", s.handleDeleteComment)
	admin.GET("/posts/:id/likes", s.handleLikeDetail)
	admin.POST("/upload", s.handleUpload)
}

// Engine exposes the router for handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

var Module = fx.Module("server",
	fx.Provide(New),
)
