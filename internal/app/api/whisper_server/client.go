package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"

	apperrors "whisper-transcription/internal/app/errors"
	"whisper-transcription/internal/app/model"
)

const (
	DefaultBaseURL      = "http://127.0.0.1:5000"
	DefaultUploadPath   = "/upload"
	DefaultDownloadPath = "/download"
	DefaultTimeout      = 120 * time.Second

	// FileField is the multipart part name the service reads the media from
	FileField = "file"
)

// Config represents configuration for the transcription service HTTP API
type Config struct {
	BaseURL       string            `yaml:"base_url"`       // e.g. "http://127.0.0.1:5000"
	UploadPath    string            `yaml:"upload_path"`    // default "/upload"
	DownloadPath  string            `yaml:"download_path"`  // default "/download"
	Timeout       time.Duration     `yaml:"timeout"`        // whole-request timeout
	CustomHeaders map[string]string `yaml:"custom_headers"` // sent with every request
}

// Client talks to the external transcription service
type Client struct {
	config Config
	client *http.Client
}

// uploadResponse is the JSON body returned by POST /upload
type uploadResponse struct {
	Message       string  `json:"message"`
	Transcription *string `json:"transcription"`
	File          *string `json:"file"`
}

// NewClient creates a new transcription service client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.UploadPath == "" {
		config.UploadPath = DefaultUploadPath
	}
	if config.DownloadPath == "" {
		config.DownloadPath = DefaultDownloadPath
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.CustomHeaders == nil {
		config.CustomHeaders = make(map[string]string)
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Config returns the effective configuration
func (c *Client) Config() Config {
	return c.config
}

// Upload sends the media file to the service and returns the transcription
func (c *Client) Upload(ctx context.Context, file model.Media) (*model.Transcription, error) {
	body, contentType, err := createMultipartForm(file)
	if err != nil {
		return nil, apperrors.Transport(err, "failed to create multipart form")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+c.config.UploadPath, body)
	if err != nil {
		return nil, apperrors.Transport(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.Transport(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transport(err, "failed to read response")
	}

	if !successful(resp.StatusCode) {
		return nil, apperrors.Status(resp.StatusCode, serviceErrorMessage(responseData))
	}

	return parseUploadResponse(responseData)
}

// DownloadURL builds the retrieval URL for a file reference returned by Upload
func (c *Client) DownloadURL(fileRef string) string {
	return BuildDownloadURL(c.config.BaseURL, c.config.DownloadPath, fileRef)
}

// BuildDownloadURL joins baseURL, downloadPath and the last segment of fileRef.
// An empty downloadPath means DefaultDownloadPath; an empty name yields "".
func BuildDownloadURL(baseURL, downloadPath, fileRef string) string {
	name := ReferenceName(fileRef)
	if name == "" {
		return ""
	}
	if downloadPath == "" {
		downloadPath = DefaultDownloadPath
	}
	return strings.TrimSuffix(baseURL, "/") + strings.TrimSuffix(downloadPath, "/") + "/" + url.PathEscape(name)
}

// Download streams the result file for fileRef into w
func (c *Client) Download(ctx context.Context, fileRef string, w io.Writer) (int64, error) {
	target := c.DownloadURL(fileRef)
	if target == "" {
		return 0, apperrors.Validation("empty file reference")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, apperrors.Transport(err, "failed to create download request")
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, apperrors.Transport(err, "download request failed")
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, apperrors.Status(resp.StatusCode, serviceErrorMessage(data))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, apperrors.Transport(err, "failed to read download")
	}
	return n, nil
}

// HealthCheck checks that the service answers on its base URL
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return apperrors.Transport(err, "failed to create health check request")
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Transport(err, "server connectivity test failed")
	}
	defer resp.Body.Close()

	// A bare Flask app answers 404 on "/", which still means it is up
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return apperrors.Status(resp.StatusCode, "")
	}
	return nil
}

// successful reports any 2xx status
func successful(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func (c *Client) setHeaders(req *http.Request) {
	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}
}

// ReferenceName extracts the final path segment of a server-side file reference
func ReferenceName(fileRef string) string {
	fileRef = strings.TrimSpace(fileRef)
	if i := strings.LastIndexAny(fileRef, `/\`); i >= 0 {
		return fileRef[i+1:]
	}
	return fileRef
}

// createMultipartForm creates the single-part multipart body for an upload
func createMultipartForm(file model.Media) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	content, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer content.Close()

	part, err := writer.CreateFormFile(FileField, file.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func parseUploadResponse(data []byte) (*model.Transcription, error) {
	var resp uploadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.Malformed(err, "failed to parse JSON response")
	}

	missing := lo.Filter([]string{"transcription", "file"}, func(field string, _ int) bool {
		switch field {
		case "transcription":
			return resp.Transcription == nil
		default:
			return resp.File == nil || *resp.File == ""
		}
	})
	if len(missing) > 0 {
		return nil, apperrors.Malformed(nil, "response missing "+strings.Join(missing, ", "))
	}

	return &model.Transcription{
		Message:       resp.Message,
		Text:          *resp.Transcription,
		FileReference: *resp.File,
	}, nil
}

// serviceErrorMessage pulls {"error": "..."} out of an error body when present
func serviceErrorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
