package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sidequest/sidequest-api/internal/config"
	"github.com/sidequest/sidequest-api/internal/handlers"
	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/mailer"
	"github.com/sidequest/sidequest-api/internal/middleware/requestlog"
	"github.com/sidequest/sidequest-api/internal/response"
	"github.com/sidequest/sidequest-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config: cfg,
		db:     db,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	mail := mailer.New(s.config)

	waitlistRepo := postgres.NewWaitlistRepository(s.db)
	pollRepo := postgres.NewPollRepository(s.db)

	waitlistHandler := handlers.NewWaitlistHandler(waitlistRepo, mail)
	pollHandler := handlers.NewPollHandler(pollRepo)
	contactHandler := handlers.NewContactHandler(mail)

	return NewRouter(s.config, waitlistHandler, pollHandler, contactHandler)
}

// NewRouter builds the gin engine with middleware and the route table.
// Handlers are injected so tests can wire in-memory repositories.
func NewRouter(
	cfg *config.Config,
	waitlistHandler *handlers.WaitlistHandler,
	pollHandler *handlers.PollHandler,
	contactHandler *handlers.ContactHandler,
) *gin.Engine {
	router := gin.New()

	router.Use(requestlog.New())
	router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.HTTP().Error("panic recovered", "error", err, "path", c.Request.URL.Path)
		response.InternalError(c)
		c.Abort()
	}))

	corsConfig := cors.DefaultConfig()
	if cfg.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.CORS.AllowOrigins, ",")
	}
	corsConfig.AllowMethods = strings.Split(cfg.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(cfg.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Non-GET endpoints answer other verbs with 405, not 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "SideQuest API is running",
			"status":  "healthy",
		})
	})

	api := router.Group("/api")
	{
		wl := api.Group("/waitlist")
		{
			wl.POST("", waitlistHandler.Register)
			wl.GET("/count", waitlistHandler.Count)
		}

		api.POST("/contact", contactHandler.Submit)

		polls := api.Group("/polls")
		{
			polls.POST("", pollHandler.CreatePoll)
			polls.GET("/:shareCode", pollHandler.GetPoll)
			polls.POST("/:shareCode/vote", pollHandler.CastVote)
		}
	}

	return router
}
