package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "whisper-transcription/internal/api/errors"
	"whisper-transcription/internal/api/middleware"
	"whisper-transcription/internal/api/ui"
	"whisper-transcription/internal/api/v1/handlers"
	v1routes "whisper-transcription/internal/api/v1/routes"
	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/metrics"
	"whisper-transcription/internal/app/session"
	"whisper-transcription/internal/app/storage/uploads"
	"whisper-transcription/internal/app/view"
)

// Config represents web server configuration
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// HealthChecker reports whether the transcription service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies are the collaborators the routes are wired to
type Dependencies struct {
	Session  *session.Session
	Store    *uploads.Store
	Link     view.LinkFunc
	Recorder *metrics.Recorder
	Upstream HealthChecker
}

// Server represents the web server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new web server
func NewServer(config Config, deps Dependencies, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)

	// Set Gin mode based on environment
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(view.Template())

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", healthHandler(deps))
	if deps.Recorder != nil {
		router.GET("/metrics", gin.WrapH(deps.Recorder.Handler()))
	}

	// Result view
	ui.NewHandler(deps.Session, deps.Store, deps.Link, logger).Register(router)

	// JSON API
	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, handlers.NewSessionHandler(deps.Session, deps.Store, deps.Link, logger))
	}

	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// healthHandler reports this process as healthy; the upstream service
// is only checked when ?upstream=true is passed
func healthHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"busy":      deps.Session.Snapshot().Busy,
		}

		if c.Query("upstream") == "true" && deps.Upstream != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			if err := deps.Upstream.HealthCheck(ctx); err != nil {
				middleware.HandleError(c, apierrors.NewServiceUnavailableError("Transcription service unavailable", err))
				return
			}
			body["upstream"] = "ok"
		}

		c.JSON(http.StatusOK, body)
	}
}

// Start starts the web server and returns once it is listening in the background.
// Listener errors other than a clean shutdown are sent to the returned channel.
func (s *Server) Start() <-chan error {
	s.logger.Info("Starting web server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Failed to start server", zap.Error(err))
			errCh <- err
		}
	}()

	s.logger.Info("Web server started", zap.String("address", s.httpServer.Addr))
	return errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("Web server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
