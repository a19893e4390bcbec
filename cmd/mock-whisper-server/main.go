package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-transcription/internal/app/logging"
	"whisper-transcription/internal/app/mockservice"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:5000", "listen address")
		dir     = flag.String("dir", "uploads", "directory for uploads and transcripts")
		delay   = flag.Duration("delay", 0, "artificial processing time per upload")
		verbose = flag.Bool("verbose", false, "verbose output")
	)
	flag.Parse()

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.MustNewLogger(*verbose)
	defer logger.Sync()

	svc, err := mockservice.New(mockservice.Config{Dir: *dir, Delay: *delay}, logger)
	if err != nil {
		logger.Fatal("Failed to create mock service", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Mock transcription service listening", zap.String("address", *addr), zap.String("dir", *dir))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
