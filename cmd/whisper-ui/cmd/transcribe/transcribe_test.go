package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-transcription/cmd/whisper-ui/cmd/common"
	"whisper-transcription/internal/app/mockservice"
	"whisper-transcription/internal/app/session"
	"whisper-transcription/internal/config"
)

func startService(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	for _, key := range []string{config.EnvServiceURL, config.EnvTimeout, config.EnvPort, config.EnvEnvironment} {
		t.Setenv(key, "")
	}

	svc, err := mockservice.New(mockservice.Config{
		Dir: t.TempDir(),
		Transcriber: mockservice.TranscriberFunc(func(ctx context.Context, path string) (string, error) {
			return "hello world", nil
		}),
	}, nil)
	require.NoError(t, err)

	server := httptest.NewServer(svc.Handler())
	t.Cleanup(server.Close)
	return server.URL
}

func run(t *testing.T, serviceURL string, args ...string) (string, string, error) {
	t.Helper()
	common.Opts = common.Options{ServiceURL: serviceURL}
	outputDir = ""
	t.Cleanup(func() { outputDir = "" })

	var stdout, stderr bytes.Buffer
	Cmd.SetOut(&stdout)
	Cmd.SetErr(&stderr)
	Cmd.SetArgs(args)
	err := Cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTranscribe(t *testing.T) {
	url := startService(t)
	audio := filepath.Join(t.TempDir(), "speech.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))
	out := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := run(t, url, audio, "--output", out)
	require.NoError(t, err)

	assert.Equal(t, "hello world\n", stdout)
	assert.Contains(t, stderr, url+"/download/")
	assert.Contains(t, stderr, "_speech.txt")

	files, err := filepath.Glob(filepath.Join(out, "*_speech.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestTranscribe_NoFile(t *testing.T) {
	url := startService(t)

	stdout, stderr, err := run(t, url)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, session.MessageNoFile+"\n", stderr)
}

func TestTranscribe_UnsupportedFile(t *testing.T) {
	url := startService(t)
	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hi"), 0o644))

	_, stderr, err := run(t, url, notes)
	require.Error(t, err)
	assert.Equal(t, session.MessageUnsupported+"\n", stderr)
}

func TestTranscribe_FailedDownloadLeavesNoFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"transcription": "hello world",
				"file":          "/srv/result_7.txt",
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "File not found"})
	}))
	t.Cleanup(server.Close)
	for _, key := range []string{config.EnvServiceURL, config.EnvTimeout, config.EnvPort, config.EnvEnvironment} {
		t.Setenv(key, "")
	}

	audio := filepath.Join(t.TempDir(), "speech.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))
	out := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := run(t, server.URL, audio, "--output", out)
	require.Error(t, err)
	assert.Equal(t, "hello world\n", stdout)
	assert.Contains(t, stderr, "Failed to download transcription")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
