package transcribe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"whisper-transcription/cmd/whisper-ui/cmd/common"
	"whisper-transcription/internal/app/api/whisper_server"
	"whisper-transcription/internal/app/model"
	"whisper-transcription/internal/app/session"
)

var outputDir string

func init() {
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"also download the transcript file into this directory")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [file]",
	Short: "Upload one audio or video file and print its transcript",
	Long: `Upload one audio or video file and print its transcript

- Supported: .mp3 .wav .aac .m4a .mp4 .mkv .mov .flv
- The transcript goes to stdout, notices to stderr
- With --output the transcript file is downloaded as well`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return err
		}

		client := whisper_server.NewClient(cfg.ClientConfig())
		sess := session.New(client,
			session.WithNotifier(session.NewWriterNotifier(cmd.ErrOrStderr())),
			session.WithLogger(common.Logger()),
		)

		if len(args) == 1 {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "File not found: %s\n", args[0])
				return err
			}
			if err := sess.Select(model.MediaFromPath(path)); err != nil {
				return err
			}
		}

		// Notices are already written to stderr by the session
		if err := sess.Submit(cmd.Context()); err != nil {
			return err
		}

		st := sess.Snapshot()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, st.TranscriptText)
		fmt.Fprintf(cmd.ErrOrStderr(), "Download Transcription: %s\n", client.DownloadURL(st.DownloadRef))

		if outputDir == "" {
			return nil
		}
		return download(cmd, client, st.DownloadRef)
	},
}

// download writes the result file under outputDir; nothing is left
// behind when the transfer fails
func download(cmd *cobra.Command, client *whisper_server.Client, ref string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(outputDir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := client.Download(cmd.Context(), ref, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write transcription: %w", closeErr)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Failed to download transcription: %v\n", err)
		return err
	}

	target := filepath.Join(outputDir, whisper_server.ReferenceName(ref))
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to save %s: %w", target, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%d bytes)\n", target, n)
	return nil
}
