package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"whisper-transcription/internal/app/model"
)

// Store keeps files picked in the browser on local disk until they are submitted
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage directory
func (s *Store) Dir() string {
	return s.dir
}

// Save copies a multipart file into its own directory and returns it as Media
func (s *Store) Save(header *multipart.FileHeader) (model.Media, error) {
	name := sanitizeName(header.Filename)
	if name == "" {
		return model.Media{}, fmt.Errorf("empty file name")
	}

	src, err := header.Open()
	if err != nil {
		return model.Media{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.write(name, src)
}

func (s *Store) write(name string, src io.Reader) (model.Media, error) {
	dir := filepath.Join(s.dir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.Media{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return model.Media{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return model.Media{}, fmt.Errorf("failed to store %s: %w", name, err)
	}

	return model.Media{Name: name, Path: path}, nil
}

// Remove deletes a previously saved file and its directory
func (s *Store) Remove(file model.Media) error {
	dir := filepath.Dir(file.Path)
	if filepath.Dir(dir) != filepath.Clean(s.dir) {
		return fmt.Errorf("%s is not managed by this store", file.Path)
	}
	return os.RemoveAll(dir)
}

// Close removes every stored file
func (s *Store) Close() error {
	return os.RemoveAll(s.dir)
}

// sanitizeName keeps only the base name of a browser-supplied file name
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
