package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"whisper-transcription/cmd/whisper-ui/cmd/common"
	"whisper-transcription/cmd/whisper-ui/cmd/health"
	"whisper-transcription/cmd/whisper-ui/cmd/serve"
	"whisper-transcription/cmd/whisper-ui/cmd/transcribe"
	"whisper-transcription/cmd/whisper-ui/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisper-ui",
	Short: "Front end for a Whisper transcription service",
	Long: `Front end for a Whisper transcription service.
- serve starts a web page to upload an audio or video file and read the transcript
- transcribe uploads a single file from the command line
- The service must expose POST /upload and GET /download/{name}`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(health.Cmd)
	rootCmd.AddCommand(version.Cmd)

	common.BindFlags(rootCmd.PersistentFlags())
}
