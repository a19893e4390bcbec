package view

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"whisper-transcription/internal/app/api/whisper_server"
	"whisper-transcription/internal/app/model"
	"whisper-transcription/internal/app/session"
)

// TemplateName is the name the page template is registered under
const TemplateName = "page.html"

const (
	Title        = "Whisper Transcription"
	LabelSubmit  = "Upload & Transcribe"
	LabelBusy    = "Transcribing..."
	SubmitAction = "/submit"

	// Seconds between reloads while an upload is outstanding
	BusyRefreshSeconds = 2
)

//go:embed templates/page.html
var templates embed.FS

// LinkFunc turns a server-side file reference into a download URL
type LinkFunc func(fileRef string) string

// Page is everything the result view renders
type Page struct {
	Title          string
	Accept         string
	SubmitAction   string
	SubmitLabel    string
	SubmitDisabled bool
	Busy           bool
	RefreshSeconds int
	SelectedName   string
	Transcript     string
	DownloadURL    string
	Notice         *session.Notice
}

// Build derives the page from the current state
func Build(st session.State, link LinkFunc) Page {
	p := Page{
		Title:        Title,
		Accept:       Accept(),
		SubmitAction: SubmitAction,
		SubmitLabel:  LabelSubmit,
		Busy:         st.Busy,
		Transcript:   st.TranscriptText,
		Notice:       st.Notice,
	}

	if st.Busy {
		p.SubmitLabel = LabelBusy
		p.SubmitDisabled = true
		p.RefreshSeconds = BusyRefreshSeconds
	}
	if st.SelectedFile != nil {
		p.SelectedName = st.SelectedFile.Name
	}
	if st.DownloadRef != "" && link != nil {
		p.DownloadURL = link(st.DownloadRef)
	}
	return p
}

// DownloadLink composes the download route of baseURL with the final
// path segment of fileRef
func DownloadLink(baseURL, fileRef string) string {
	return whisper_server.BuildDownloadURL(baseURL, "", fileRef)
}

// Accept is the file input filter: audio/*, video/* and the known extensions
func Accept() string {
	exts := append(append([]string{"audio/*", "video/*"}, model.AudioExtensions...), model.VideoExtensions...)
	return strings.Join(exts, ",")
}

// Template parses the embedded page template
func Template() *template.Template {
	return template.Must(template.New(TemplateName).ParseFS(templates, "templates/"+TemplateName))
}

// Render writes the page as HTML
func (p Page) Render(w io.Writer) error {
	return Template().ExecuteTemplate(w, TemplateName, p)
}
