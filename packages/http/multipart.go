package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrMissingPartName is returned for a multipart part without a field name.
var ErrMissingPartName = errors.New("multipart part has no name")

// MultipartEncoder writes parts as a multipart/form-data body.
type MultipartEncoder struct {
	Streams StreamFactory
	// Boundary is generated when empty.
	Boundary string
}

// NewBoundary returns a fresh multipart boundary.
func NewBoundary() string {
	return "httpcase-" + uuid.NewString()
}

// Encode returns the body and its Content-Type. Parts appear in the body in
// the order given.
func (e *MultipartEncoder) Encode(parts []Part) (Stream, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	boundary := e.Boundary
	if boundary == "" {
		boundary = NewBoundary()
	}
	if err := writer.SetBoundary(boundary); err != nil {
		return nil, "", fmt.Errorf("failed to set multipart boundary: %w", err)
	}

	for i, part := range parts {
		if err := e.writePart(writer, part); err != nil {
			closeReaders(parts[i+1:])
			return nil, "", fmt.Errorf("multipart part %d (%q): %w", i, part.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return e.Streams.CreateStream(body.String()), writer.FormDataContentType(), nil
}

func (e *MultipartEncoder) writePart(writer *multipart.Writer, part Part) error {
	if part.Name == "" {
		closeReaders([]Part{part})
		return ErrMissingPartName
	}

	h := make(textproto.MIMEHeader)
	disposition := fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(part.Name))
	if part.Filename != "" {
		disposition += fmt.Sprintf(`; filename="%s"`, escapeQuotes(part.Filename))
	}
	h.Set("Content-Disposition", disposition)

	contentType := part.ContentType
	if contentType == "" && part.Filename != "" {
		contentType = mime.TypeByExtension(filepath.Ext(part.Filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	var contents io.Reader = strings.NewReader(part.Contents)
	if part.Reader != nil {
		stream, err := e.Streams.CreateStreamFromResource(part.Reader)
		if err != nil {
			return err
		}
		contents = stream
	}

	w, err := writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, contents)
	return err
}

// closeReaders releases part readers that will not be consumed.
func closeReaders(parts []Part) {
	for _, part := range parts {
		if c, ok := part.Reader.(io.Closer); ok {
			c.Close()
		}
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
