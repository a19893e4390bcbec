package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "whisper-transcription/internal/app/errors"
	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/metrics"
	"whisper-transcription/internal/app/model"
)

// Uploader submits one media file to the transcription service
type Uploader interface {
	Upload(ctx context.Context, file model.Media) (*model.Transcription, error)
}

// State is the view-state of one page session
type State struct {
	SelectedFile   *model.Media `json:"selected_file,omitempty"`
	Busy           bool         `json:"busy"`
	TranscriptText string       `json:"transcription,omitempty"`
	DownloadRef    string       `json:"file,omitempty"`
	Notice         *Notice      `json:"notice,omitempty"`
}

// Session owns the view-state and runs uploads against it.
// At most one upload is in flight; Busy is set before the request
// and released on every exit path.
type Session struct {
	uploader Uploader
	notifier Notifier
	logger   *zap.Logger
	recorder *metrics.Recorder
	discard  func(model.Media)

	mu        sync.RWMutex
	state     State
	uploading string
	pending   []model.Media
}

// Option configures a Session
type Option func(*Session)

// WithNotifier sets where notices are delivered besides the state
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logging.OrNop(logger) }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithDiscard sets a callback for files the session no longer references,
// e.g. a selection that was replaced by a newer pick
func WithDiscard(fn func(model.Media)) Option {
	return func(s *Session) { s.discard = fn }
}

// New creates an idle session with empty state
func New(uploader Uploader, opts ...Option) *Session {
	s := &Session{
		uploader: uploader,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.SelectedFile != nil {
		file := *st.SelectedFile
		st.SelectedFile = &file
	}
	if st.Notice != nil {
		notice := *st.Notice
		st.Notice = &notice
	}
	return st
}

// Select replaces the selected file. Non audio/video files are refused
// and leave the previous selection in place.
func (s *Session) Select(file model.Media) error {
	if file.Name == "" || file.Path == "" {
		return s.reject(apperrors.ErrNoFileSelected)
	}
	if !file.IsSupported() {
		return s.reject(apperrors.Wrapf(apperrors.ErrUnsupportedFormat, "select %s", file.Name))
	}

	var dropped []model.Media
	s.mu.Lock()
	if old := s.state.SelectedFile; old != nil && old.Path != file.Path {
		// The running upload still reads the old file; drop it on release
		if s.state.Busy && old.Path == s.uploading {
			s.pending = append(s.pending, *old)
		} else {
			dropped = append(dropped, *old)
		}
	}
	s.state.SelectedFile = &file
	s.state.Notice = nil
	s.mu.Unlock()

	s.discardAll(dropped)
	s.logger.Debug("File selected", zap.String("file", file.Name))
	return nil
}

// Reject surfaces a pick that could not be turned into a selection,
// e.g. an upload that failed to be stored. The current selection is kept.
func (s *Session) Reject(err error) error {
	return s.reject(err)
}

// Submit uploads the selected file and waits for the result.
// The request is not cancelled by ctx; it ends when the service answers
// or the client timeout fires.
func (s *Session) Submit(ctx context.Context) error {
	file, err := s.acquire()
	if err != nil {
		return err
	}
	return s.run(context.WithoutCancel(ctx), file)
}

// Start begins an upload without waiting for it. Busy is already true when
// Start returns nil; the channel yields the upload result and is closed.
func (s *Session) Start(ctx context.Context) (<-chan error, error) {
	file, err := s.acquire()
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.run(context.WithoutCancel(ctx), file)
	}()
	return done, nil
}

// acquire validates the selection and takes the busy flag
func (s *Session) acquire() (model.Media, error) {
	s.mu.Lock()
	switch {
	case s.state.SelectedFile == nil:
		s.mu.Unlock()
		return model.Media{}, s.reject(apperrors.ErrNoFileSelected)
	case s.state.Busy:
		s.mu.Unlock()
		return model.Media{}, s.reject(apperrors.ErrBusy)
	}

	file := *s.state.SelectedFile
	s.state.Busy = true
	s.state.Notice = nil
	s.uploading = file.Path
	s.mu.Unlock()

	s.recorder.SetBusy(true)
	return file, nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.state.Busy = false
	s.uploading = ""
	dropped := lo.Reject(s.pending, func(file model.Media, _ int) bool {
		return s.state.SelectedFile != nil && file.Path == s.state.SelectedFile.Path
	})
	s.pending = nil
	s.mu.Unlock()

	s.recorder.SetBusy(false)
	s.discardAll(dropped)
}

func (s *Session) discardAll(files []model.Media) {
	if s.discard == nil {
		return
	}
	for _, file := range files {
		s.discard(file)
	}
}

func (s *Session) run(ctx context.Context, file model.Media) (err error) {
	startTime := time.Now()
	defer s.release()
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Transport(fmt.Errorf("%v", r), "upload aborted")
			s.fail(file, err, startTime)
		}
	}()

	s.logger.Info("Uploading file for transcription", zap.String("file", file.Name))

	result, err := s.uploader.Upload(ctx, file)
	if err == nil && result == nil {
		err = apperrors.Malformed(nil, "empty upload result")
	}
	if err != nil {
		if !apperrors.IsUploadFailure(err) {
			err = apperrors.Transport(err, "upload failed")
		}
		s.fail(file, err, startTime)
		return err
	}

	s.mu.Lock()
	s.state.TranscriptText = result.Text
	s.state.DownloadRef = result.FileReference
	s.mu.Unlock()

	s.recorder.ObserveUpload(metrics.OutcomeSuccess, time.Since(startTime))
	s.logger.Info("Transcription completed",
		zap.String("file", file.Name),
		zap.String("result", result.FileReference),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return nil
}

// fail surfaces an upload failure; transcript and download ref stay as they were
func (s *Session) fail(file model.Media, err error, startTime time.Time) {
	outcome := metrics.OutcomeTransport
	if apperrors.IsMalformed(err) {
		outcome = metrics.OutcomeMalformed
	}
	s.recorder.ObserveUpload(outcome, time.Since(startTime))
	s.logger.Error("Error uploading file",
		zap.String("file", file.Name),
		zap.Error(err),
	)
	s.raise(NoticeFor(err))
}

// reject surfaces a submit refused before any network call
func (s *Session) reject(err error) error {
	s.recorder.ObserveRejected()
	s.raise(NoticeFor(err))
	return err
}

func (s *Session) raise(n Notice) {
	s.mu.Lock()
	s.state.Notice = &n
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}
