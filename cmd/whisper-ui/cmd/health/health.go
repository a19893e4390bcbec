package health

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"whisper-transcription/cmd/whisper-ui/cmd/common"
	"whisper-transcription/internal/app/api/whisper_server"
)

// Cmd represents the health command
var Cmd = &cobra.Command{
	Use:          "health",
	Short:        "Check that the transcription service is reachable",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}

		client := whisper_server.NewClient(cfg.ClientConfig())
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		start := time.Now()
		if err := client.HealthCheck(ctx); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "❌ %s is unhealthy (%v): %v\n", cfg.ServiceURL, time.Since(start).Round(time.Millisecond), err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is healthy (%v)\n", cfg.ServiceURL, time.Since(start).Round(time.Millisecond))
		return nil
	},
}
