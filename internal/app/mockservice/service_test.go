package mockservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-transcription/internal/app/api/whisper_server"
	"whisper-transcription/internal/app/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestService(t *testing.T, transcriber Transcriber) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := New(Config{Dir: dir, Transcriber: transcriber}, nil)
	require.NoError(t, err)
	return svc, dir
}

func postUpload(t *testing.T, svc *Service, build func(w *multipart.Writer)) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if build != nil {
		build(writer)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	svc.Handler().ServeHTTP(w, req)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func withFile(name, content string) func(w *multipart.Writer) {
	return func(w *multipart.Writer) {
		part, _ := w.CreateFormFile("file", name)
		part.Write([]byte(content))
	}
}

func TestUpload_Success(t *testing.T) {
	svc, dir := newTestService(t, nil)

	w, resp := postUpload(t, svc, withFile("speech.wav", "RIFF"))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, MessageCompleted, resp["message"])
	assert.Contains(t, resp["transcription"], "speech.wav")
	assert.True(t, strings.HasSuffix(resp["file"], "_speech.txt"))
	assert.Equal(t, dir, filepath.Dir(resp["file"]))

	saved, err := os.ReadFile(resp["file"])
	require.NoError(t, err)
	assert.Equal(t, resp["transcription"], string(saved))
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *multipart.Writer)
		want  string
	}{
		{name: "no file part", build: nil, want: ErrNoFileProvided},
		{name: "other field only", build: func(w *multipart.Writer) { w.WriteField("lang", "en") }, want: ErrNoFileProvided},
		{
			name: "empty file name",
			build: func(w *multipart.Writer) {
				h := make(textproto.MIMEHeader)
				h.Set("Content-Disposition", `form-data; name="file"; filename=""`)
				part, _ := w.CreatePart(h)
				part.Write([]byte("data"))
			},
			want: ErrNoFileSelected,
		},
		{name: "unsupported extension", build: withFile("notes.txt", "hi"), want: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, nil)
			w, resp := postUpload(t, svc, tt.build)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, resp["error"])
		})
	}
}

func TestUpload_TranscriberError(t *testing.T) {
	svc, _ := newTestService(t, TranscriberFunc(func(ctx context.Context, path string) (string, error) {
		return "", errors.New("model not loaded")
	}))

	w, resp := postUpload(t, svc, withFile("clip.mp4", "....ftyp"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "model not loaded", resp["error"])
}

func TestDownload(t *testing.T) {
	svc, dir := newTestService(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "result_7.txt"), []byte("hello world"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/download/result_7.txt", nil)
	w := httptest.NewRecorder()
	svc.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "result_7.txt")

	for _, path := range []string{"/download/missing.txt", "/download/.hidden.txt"} {
		w = httptest.NewRecorder()
		svc.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"File not found"}`, w.Body.String())
	}
}

// The client and the mock agree on the wire contract end to end
func TestClientRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, TranscriberFunc(func(ctx context.Context, path string) (string, error) {
		return "hello world", nil
	}))
	server := httptest.NewServer(svc.Handler())
	defer server.Close()

	audio := filepath.Join(t.TempDir(), "speech.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))

	client := whisper_server.NewClient(whisper_server.Config{BaseURL: server.URL})
	require.NoError(t, client.HealthCheck(context.Background()))

	result, err := client.Upload(context.Background(), model.MediaFromPath(audio))
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Text)

	var buf bytes.Buffer
	_, err = client.Download(context.Background(), result.FileReference, &buf)
	require.NoError(t, err)
	assert.Equal(t, "hello world", buf.String())
}

func TestSecureName(t *testing.T) {
	tests := map[string]string{
		"speech.wav":        "speech.wav",
		"../../etc/passwd":  "passwd",
		`C:\media\talk.mp3`: "talk.mp3",
		"my talk.m4a":       "my_talk.m4a",
		"..":                "",
		"":                  "",
		".hidden.wav":       "hidden.wav",
	}
	for in, want := range tests {
		assert.Equal(t, want, secureName(in), in)
	}
}
