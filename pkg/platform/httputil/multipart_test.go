package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medid/pkg/domain-errors"
	"medid/pkg/testutil"
)

func TestParseMultipart(t *testing.T) {
	t.Run("returns file and text fields", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/x",
			map[string]string{"login": "dr1"},
			&testutil.MultipartFile{Field: "document", Filename: "license.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		)
		require.True(t, IsMultipart(req))

		part, err := ParseMultipart(httptest.NewRecorder(), req, 1024, "document")
		require.NoError(t, err)
		require.NotNil(t, part)
		assert.Equal(t, "license.pdf", part.FileName)
		assert.Equal(t, "application/pdf", part.ContentType)
		assert.Equal(t, "dr1", req.FormValue("login"))
	})

	t.Run("form without the file yields nil", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/x", map[string]string{"login": "dr1"}, nil)
		part, err := ParseMultipart(httptest.NewRecorder(), req, 1024, "document")
		require.NoError(t, err)
		assert.Nil(t, part)
	})

	t.Run("oversized file is a validation error", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/x", nil,
			&testutil.MultipartFile{Field: "document", Filename: "big.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("a"), 2048)},
		)
		_, err := ParseMultipart(httptest.NewRecorder(), req, 1024, "document")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("json request is not multipart", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/x", map[string]string{"a": "b"})
		assert.False(t, IsMultipart(req))
	})
}
