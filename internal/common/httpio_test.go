package common

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, field, filename, contentType string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("payload"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req
}

func TestSaveUploadedFile_Kinds(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        AssetKind
		accepted    bool
	}{
		{name: "video part for video field", contentType: "video/mp4", want: AssetKindVideo, accepted: true},
		{name: "image part for image field", contentType: "image/png", want: AssetKindImage, accepted: true},
		{name: "undeclared type is left to the store", contentType: "application/octet-stream", want: AssetKindVideo, accepted: true},
		{name: "image part for video field", contentType: "image/jpeg", want: AssetKindVideo},
		{name: "video part for image field", contentType: "Video/WebM", want: AssetKindImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path, ok, err := SaveUploadedFile(multipartRequest(t, "upload", "f.bin", tt.contentType), "upload", dir, tt.want)
			if !tt.accepted {
				require.True(t, HasCode(err, ErrCodeValidationFailed), "got %v", err)
				assert.False(t, ok)
				entries, _ := os.ReadDir(dir)
				assert.Empty(t, entries, "rejected parts are not written")
				return
			}
			require.NoError(t, err)
			assert.True(t, ok)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))
		})
	}
}

func TestSaveUploadedFile_MissingField(t *testing.T) {
	path, ok, err := SaveUploadedFile(multipartRequest(t, "other", "f.png", "image/png"), "thumbnail", t.TempDir(), AssetKindImage)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}
