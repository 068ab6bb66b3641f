package httputil

import (
	"errors"
	"io"
	"mime"
	"net/http"

	dErrors "medid/pkg/domain-errors"
)

// FilePart is a file read from a multipart form.
type FilePart struct {
	FileName    string
	ContentType string
	Data        []byte
}

// IsMultipart reports whether the request carries a multipart form.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// ParseMultipart parses a multipart form whose body may not exceed maxBytes
// and returns the file in field, or nil when the form has none. Text fields
// are then available through r.FormValue.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64, field string) (*FilePart, error) {
	// leave room for the text fields around the file
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, dErrors.New(dErrors.CodeValidation, "document exceeds maximum allowed size")
		}
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form")
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+field+" part")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "failed to read "+field)
	}
	if int64(len(data)) > maxBytes {
		return nil, dErrors.New(dErrors.CodeValidation, "document exceeds maximum allowed size")
	}
	return &FilePart{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
