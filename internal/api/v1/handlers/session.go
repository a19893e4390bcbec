package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-transcription/internal/api/errors"
	"whisper-transcription/internal/api/middleware"
	"whisper-transcription/internal/api/v1/dto"
	apperrors "whisper-transcription/internal/app/errors"
	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/session"
	"whisper-transcription/internal/app/storage/uploads"
	"whisper-transcription/internal/app/view"
)

// SessionHandler exposes the session over JSON
type SessionHandler struct {
	session *session.Session
	store   *uploads.Store
	link    view.LinkFunc
	logger  *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sess *session.Session, store *uploads.Store, link view.LinkFunc, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		session: sess,
		store:   store,
		link:    link,
		logger:  logging.OrNop(logger),
	}
}

// State handles GET /api/v1/state
func (h *SessionHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSessionResponse(h.session.Snapshot(), h.link))
}

// Select handles POST /api/v1/select (multipart, part "file")
func (h *SessionHandler) Select(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewValidationError("No file provided", map[string]string{
			"file": "is required",
		}))
		return
	}

	media, err := h.store.Save(header)
	if err != nil {
		h.logger.Error("Failed to store selected file", zap.String("file", header.Filename), zap.Error(err))
		err = h.session.Reject(apperrors.Wrapf(apperrors.ErrFileUnreadable, "store %s", header.Filename))
		middleware.HandleError(c, errors.FromDomain(err, session.NoticeFor(err).Message))
		return
	}

	if err := h.session.Select(media); err != nil {
		_ = h.store.Remove(media)
		middleware.HandleError(c, errors.FromDomain(err, session.NoticeFor(err).Message))
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(h.session.Snapshot(), h.link))
}

// Submit handles POST /api/v1/submit and waits for the transcription
func (h *SessionHandler) Submit(c *gin.Context) {
	if err := h.session.Submit(c.Request.Context()); err != nil {
		middleware.HandleError(c, errors.FromDomain(err, session.NoticeFor(err).Message))
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(h.session.Snapshot(), h.link))
}
