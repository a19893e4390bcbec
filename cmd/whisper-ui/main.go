package main

import (
	"fmt"
	"os"

	"whisper-transcription/cmd/whisper-ui/cmd"
	"whisper-transcription/internal/config"
)

func main() {
	// A broken .env is reported but does not stop the CLI
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
	}

	cmd.Execute()
}
