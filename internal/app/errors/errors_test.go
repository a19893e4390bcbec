package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "no file selected", err: ErrNoFileSelected, want: KindValidation},
		{name: "unsupported format", err: ErrUnsupportedFormat, want: KindValidation},
		{name: "unreadable pick", err: Wrapf(ErrFileUnreadable, "store %s", "b.wav"), want: KindValidation},
		{name: "busy", err: ErrBusy, want: KindBusy},
		{name: "transport", err: Transport(fmt.Errorf("dial tcp: refused"), "upload failed"), want: KindTransport},
		{name: "status", err: Status(http.StatusInternalServerError, ""), want: KindTransport},
		{name: "malformed", err: Malformed(nil, "missing transcription"), want: KindMalformedResponse},
		{name: "wrapped keeps kind", err: Wrap(Status(http.StatusBadGateway, ""), "upload"), want: KindTransport},
		{name: "fmt wrapped", err: fmt.Errorf("outer: %w", ErrNoFileSelected), want: KindValidation},
		{name: "plain error", err: stderrors.New("boom"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestIs(t *testing.T) {
	wrapped := Wrapf(ErrNoFileSelected, "submit %s", "speech.wav")

	assert.True(t, stderrors.Is(wrapped, ErrNoFileSelected))
	assert.False(t, stderrors.Is(wrapped, ErrUnsupportedFormat))
	assert.True(t, stderrors.Is(Validation("no file selected"), ErrNoFileSelected))
	assert.False(t, stderrors.Is(Transport(nil, "no file selected"), ErrNoFileSelected))
}

func TestStatusCode(t *testing.T) {
	err := Wrap(Status(http.StatusInternalServerError, "internal"), "upload speech.wav")

	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, 0, StatusCode(Transport(stderrors.New("timeout"), "upload")))
	assert.Equal(t, "upload speech.wav: service returned status 500: internal", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}

func TestIsUploadFailure(t *testing.T) {
	assert.True(t, IsUploadFailure(Status(http.StatusNotFound, "")))
	assert.True(t, IsUploadFailure(Malformed(nil, "bad json")))
	assert.False(t, IsUploadFailure(ErrNoFileSelected))
	assert.False(t, IsUploadFailure(ErrBusy))
	assert.False(t, IsUploadFailure(nil))
}
