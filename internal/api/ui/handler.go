package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "whisper-transcription/internal/app/errors"
	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/session"
	"whisper-transcription/internal/app/storage/uploads"
	"whisper-transcription/internal/app/view"
)

// Handler serves the HTML result view and its form
type Handler struct {
	session *session.Session
	store   *uploads.Store
	link    view.LinkFunc
	logger  *zap.Logger
}

// NewHandler creates a new UI handler
func NewHandler(sess *session.Session, store *uploads.Store, link view.LinkFunc, logger *zap.Logger) *Handler {
	return &Handler{
		session: sess,
		store:   store,
		link:    link,
		logger:  logging.OrNop(logger),
	}
}

// Register mounts the UI routes; the engine must carry view.Template()
func (h *Handler) Register(router gin.IRoutes) {
	router.GET("/", h.Index)
	router.POST(view.SubmitAction, h.Submit)
}

// Index renders the current state
func (h *Handler) Index(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, view.TemplateName, view.Build(h.session.Snapshot(), h.link))
}

// Submit selects the attached file, if any, then starts the upload without
// waiting for it. Rejections end up as a notice on the rendered page; a pick
// that cannot be stored never starts an upload.
func (h *Handler) Submit(c *gin.Context) {
	if header, err := c.FormFile("file"); err == nil && header.Filename != "" {
		media, err := h.store.Save(header)
		if err != nil {
			h.logger.Error("Failed to store selected file", zap.String("file", header.Filename), zap.Error(err))
			_ = h.session.Reject(apperrors.Wrapf(apperrors.ErrFileUnreadable, "store %s", header.Filename))
			h.redirect(c)
			return
		}
		if err := h.session.Select(media); err != nil {
			_ = h.store.Remove(media)
			h.redirect(c)
			return
		}
	}

	if _, err := h.session.Start(c.Request.Context()); err != nil {
		h.logger.Debug("Submit refused", zap.Error(err))
	}
	h.redirect(c)
}

func (h *Handler) redirect(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
