package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-transcription/cmd/whisper-ui/cmd/common"
	"whisper-transcription/internal/api/server"
	"whisper-transcription/internal/app/api/whisper_server"
	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/metrics"
	"whisper-transcription/internal/app/model"
	"whisper-transcription/internal/app/session"
	"whisper-transcription/internal/app/storage/uploads"
)

const shutdownTimeout = 15 * time.Second

var host string
var port string

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides config)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription web page",
	Long: `Start the transcription web page

- Pick an audio or video file and press "Upload & Transcribe"
- The file is sent to the transcription service; the transcript and a
  download link are shown when it answers
- A JSON API is served under /api/v1, metrics under /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}
		if host != "" {
			cfg.Host = host
		}
		if port != "" {
			cfg.Port = port
		}

		logger, err := logging.NewLogger(!cfg.IsProduction() || common.Opts.Verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		store, err := uploads.NewStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		defer store.Close()

		client := whisper_server.NewClient(cfg.ClientConfig())
		recorder := metrics.NewRecorder()
		sess := session.New(client,
			session.WithNotifier(session.NewLogNotifier(logger)),
			session.WithLogger(logger),
			session.WithRecorder(recorder),
			session.WithDiscard(func(file model.Media) {
				if err := store.Remove(file); err != nil {
					logger.Warn("Failed to remove replaced upload", zap.String("path", file.Path), zap.Error(err))
				}
			}),
		)

		srv := server.NewServer(server.Config{
			Host:         cfg.Host,
			Port:         cfg.Port,
			ReadTimeout:  time.Minute,
			WriteTimeout: cfg.Timeout + 30*time.Second,
			IdleTimeout:  2 * time.Minute,
			Environment:  cfg.Environment,
		}, server.Dependencies{
			Session:  sess,
			Store:    store,
			Link:     client.DownloadURL,
			Recorder: recorder,
			Upstream: client,
		}, logger)

		upstream := client.Config()
		logger.Info("Using transcription service",
			zap.String("url", upstream.BaseURL),
			zap.Duration("timeout", upstream.Timeout),
			zap.String("upload_dir", store.Dir()),
			zap.String("page", "http://"+srv.Addr()),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := srv.Start()
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
