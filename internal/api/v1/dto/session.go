package dto

import (
	"whisper-transcription/internal/app/session"
)

// SessionResponse is the JSON view of the session state
type SessionResponse struct {
	SelectedFile  string          `json:"selected_file,omitempty"`
	Busy          bool            `json:"busy"`
	Transcription string          `json:"transcription,omitempty"`
	File          string          `json:"file,omitempty"`
	DownloadURL   string          `json:"download_url,omitempty"`
	Notice        *session.Notice `json:"notice,omitempty"`
}

// NewSessionResponse converts a state snapshot; link builds download URLs
func NewSessionResponse(st session.State, link func(string) string) SessionResponse {
	resp := SessionResponse{
		Busy:          st.Busy,
		Transcription: st.TranscriptText,
		File:          st.DownloadRef,
		Notice:        st.Notice,
	}
	if st.SelectedFile != nil {
		resp.SelectedFile = st.SelectedFile.Name
	}
	if st.DownloadRef != "" && link != nil {
		resp.DownloadURL = link(st.DownloadRef)
	}
	return resp
}
