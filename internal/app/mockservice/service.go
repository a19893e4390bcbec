package mockservice

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/model"
)

// Error texts returned as {"error": ...}
const (
	ErrNoFileProvided    = "No file provided"
	ErrNoFileSelected    = "No file selected"
	ErrUnsupportedFormat = "Unsupported file format"
	ErrFileNotFound      = "File not found"

	MessageCompleted = "Transcription completed!"
)

// Transcriber turns a stored media file into text
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// TranscriberFunc adapts a function to Transcriber
type TranscriberFunc func(ctx context.Context, path string) (string, error)

// Transcribe implements Transcriber
func (f TranscriberFunc) Transcribe(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// CannedTranscriber returns a fixed sentence naming the file
var CannedTranscriber = TranscriberFunc(func(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Mock transcription of %s (%d bytes).", filepath.Base(path), info.Size()), nil
})

// Config configures the mock service
type Config struct {
	// Directory uploads and transcripts are written to
	Dir string
	// Artificial processing time per upload
	Delay       time.Duration
	Transcriber Transcriber
}

// Service is a local stand-in for the transcription service
type Service struct {
	config Config
	router *gin.Engine
	logger *zap.Logger
}

// New creates the service and its upload directory
func New(config Config, logger *zap.Logger) (*Service, error) {
	if config.Dir == "" {
		config.Dir = "uploads"
	}
	if config.Transcriber == nil {
		config.Transcriber = CannedTranscriber
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", config.Dir, err)
	}

	s := &Service{
		config: config,
		router: gin.New(),
		logger: logging.OrNop(logger),
	}
	s.router.Use(gin.Recovery())
	s.router.POST("/upload", s.Upload)
	s.router.GET("/download/:name", s.Download)
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return s, nil
}

// Handler returns the HTTP handler
func (s *Service) Handler() http.Handler {
	return s.router
}

// Upload handles POST /upload
func (s *Service) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		// A part named "file" without a filename arrives as a plain value
		if form := c.Request.MultipartForm; form != nil && len(form.Value["file"]) > 0 {
			s.badRequest(c, ErrNoFileSelected)
			return
		}
		s.badRequest(c, ErrNoFileProvided)
		return
	}
	name := secureName(header.Filename)
	if name == "" {
		s.badRequest(c, ErrNoFileSelected)
		return
	}
	if !model.IsSupportedName(name) {
		s.badRequest(c, ErrUnsupportedFormat)
		return
	}

	stored := filepath.Join(s.config.Dir, uuid.NewString()[:8]+"_"+name)
	if err := c.SaveUploadedFile(header, stored); err != nil {
		s.logger.Error("Failed to save upload", zap.String("file", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	if s.config.Delay > 0 {
		select {
		case <-time.After(s.config.Delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	text, err := s.config.Transcriber.Transcribe(c.Request.Context(), stored)
	if err != nil {
		s.logger.Error("Transcription failed", zap.String("file", stored), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	transcript := strings.TrimSuffix(stored, filepath.Ext(stored)) + ".txt"
	if err := os.WriteFile(transcript, []byte(text), 0o644); err != nil {
		s.logger.Error("Failed to write transcript", zap.String("file", transcript), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write transcript"})
		return
	}

	s.logger.Info("Transcribed upload",
		zap.String("file", name),
		zap.String("transcript", transcript),
		zap.Bool("video", model.MediaFromPath(stored).IsVideo()),
	)
	c.JSON(http.StatusOK, gin.H{
		"message":       MessageCompleted,
		"transcription": text,
		"file":          transcript,
	})
}

// Download handles GET /download/:name
func (s *Service) Download(c *gin.Context) {
	name := c.Param("name")
	if secureName(name) != name {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrFileNotFound})
		return
	}

	path := filepath.Join(s.config.Dir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrFileNotFound})
		return
	}
	c.FileAttachment(path, name)
}

func (s *Service) badRequest(c *gin.Context, message string) {
	s.logger.Debug("Rejected upload", zap.String("reason", message))
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// secureName keeps the base name and drops characters unsafe in a path
func secureName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	name = strings.TrimLeft(name, ".")
	return name
}
