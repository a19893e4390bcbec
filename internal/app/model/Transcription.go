package model

// Transcription is the successful outcome of one upload
type Transcription struct {
	Message       string `json:"message,omitempty"`
	Text          string `json:"transcription"`
	FileReference string `json:"file"`
}
