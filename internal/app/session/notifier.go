package session

import (
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	apperrors "whisper-transcription/internal/app/errors"
)

// User-visible notice texts
const (
	MessageNoFile      = "Please select a file first."
	MessageUnsupported = "Unsupported file format. Please choose an audio or video file."
	MessageUnreadable  = "The selected file could not be read. Please choose it again."
	MessageBusy        = "A transcription is already in progress."
	MessageFailed      = "Failed to transcribe file."
)

// Notice is a message surfaced to the user after a rejected or failed submit
type Notice struct {
	Kind    apperrors.Kind `json:"kind"`
	Message string         `json:"message"`
	Detail  string         `json:"detail,omitempty"`
	At      time.Time      `json:"at"`
}

// NoticeFor converts an error into the single notice shown to the user
func NoticeFor(err error) Notice {
	kind := apperrors.KindOf(err)

	n := Notice{Kind: kind, At: time.Now()}
	switch {
	case kind == apperrors.KindBusy:
		n.Message = MessageBusy
	case kind == apperrors.KindValidation && stderrors.Is(err, apperrors.ErrUnsupportedFormat):
		n.Message = MessageUnsupported
	case kind == apperrors.KindValidation && stderrors.Is(err, apperrors.ErrFileUnreadable):
		n.Message = MessageUnreadable
	case kind == apperrors.KindValidation:
		n.Message = MessageNoFile
	default:
		n.Message = MessageFailed
		n.Detail = err.Error()
	}
	return n
}

// Notifier receives notices as they are raised
type Notifier interface {
	Notify(Notice)
}

// WriterNotifier prints notices as single lines, e.g. to stderr in the CLI
type WriterNotifier struct {
	w io.Writer
}

// NewWriterNotifier creates a notifier writing to w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier
func (wn *WriterNotifier) Notify(n Notice) {
	if n.Detail != "" {
		fmt.Fprintf(wn.w, "%s (%s)\n", n.Message, n.Detail)
		return
	}
	fmt.Fprintln(wn.w, n.Message)
}

// LogNotifier logs notices through zap
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs at warn level
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (ln *LogNotifier) Notify(n Notice) {
	ln.logger.Warn("User notice",
		zap.String("kind", string(n.Kind)),
		zap.String("message", n.Message),
		zap.String("detail", n.Detail),
	)
}

// MultiNotifier fans a notice out to several notifiers
type MultiNotifier []Notifier

// Notify implements Notifier
func (m MultiNotifier) Notify(n Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
