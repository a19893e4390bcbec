package model

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Extensions accepted by the picker and by the transcription service
var (
	AudioExtensions = []string{".mp3", ".wav", ".aac", ".m4a"}
	VideoExtensions = []string{".mp4", ".mkv", ".mov", ".flv"}
)

// Media is a user-selected local audio or video file
type Media struct {
	Name string
	Path string
}

// MediaFromPath builds a Media named after the base of path
func MediaFromPath(path string) Media {
	return Media{
		Name: filepath.Base(path),
		Path: path,
	}
}

// Open opens the file content for upload
func (m Media) Open() (io.ReadCloser, error) {
	return os.Open(m.Path)
}

// Ext returns the lower-cased file extension including the dot
func (m Media) Ext() string {
	return strings.ToLower(filepath.Ext(m.Name))
}

// IsVideo reports whether the file needs audio extraction on the service side
func (m Media) IsVideo() bool {
	return lo.Contains(VideoExtensions, m.Ext())
}

// IsSupported reports whether the file is an accepted audio or video file
func (m Media) IsSupported() bool {
	return IsSupportedName(m.Name)
}

// IsSupportedName checks a file name against the accepted extensions
func IsSupportedName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return lo.Contains(AudioExtensions, ext) || lo.Contains(VideoExtensions, ext)
}
