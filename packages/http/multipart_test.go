package http

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeParts(t *testing.T, parts []Part) string {
	t.Helper()
	encoder := &MultipartEncoder{Streams: NewFactory(), Boundary: "test-boundary"}
	stream, contentType, err := encoder.Encode(parts)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data; boundary=test-boundary", contentType)

	body, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), stream.Size())
	return string(body)
}

func TestMultipartEncoder_PreservesOrder(t *testing.T) {
	body := encodeParts(t, []Part{
		{Name: "C", Contents: "third"},
		{Name: "A", Contents: "first"},
		{Name: "B", Contents: "second"},
	})

	c := strings.Index(body, `name="C"`)
	a := strings.Index(body, `name="A"`)
	b := strings.Index(body, `name="B"`)
	require.True(t, c >= 0 && a >= 0 && b >= 0)
	assert.Less(t, c, a)
	assert.Less(t, a, b)
}

func TestMultipartEncoder_Dispositions(t *testing.T) {
	body := encodeParts(t, []Part{
		{Name: "field", Contents: "plain"},
		{Name: "file B", Filename: "fileB.txt", Contents: "file contents"},
		{Name: "blob", Filename: "data.bin", Contents: "xx", ContentType: "application/x-custom"},
		{Name: `quo"te`, Contents: "q"},
	})

	assert.Contains(t, body, "Content-Disposition: form-data; name=\"field\"\r\n\r\nplain")
	assert.Contains(t, body, `Content-Disposition: form-data; name="file B"; filename="fileB.txt"`)
	assert.Contains(t, body, "Content-Type: text/plain")
	assert.Contains(t, body, "Content-Type: application/x-custom")
	assert.Contains(t, body, `name="quo\"te"`)
	assert.True(t, strings.HasSuffix(body, "--test-boundary--\r\n"))
}

func TestMultipartEncoder_ReadsStreamOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("readme body"), 0644))

	part, err := FilePart("file A", path)
	require.NoError(t, err)
	assert.Equal(t, "README.md", part.Filename)

	body := encodeParts(t, []Part{part})
	assert.Contains(t, body, `filename="README.md"`)
	assert.Contains(t, body, "readme body")

	_, err = part.Reader.(*os.File).Read(make([]byte, 1))
	assert.Error(t, err, "file should be closed after encoding")
}

func TestMultipartEncoder_Errors(t *testing.T) {
	encoder := &MultipartEncoder{Streams: NewFactory()}

	_, _, err := encoder.Encode([]Part{{Contents: "no name"}})
	assert.True(t, errors.Is(err, ErrMissingPartName))

	readErr := errors.New("disk on fire")
	_, _, err = encoder.Encode([]Part{{Name: "f", Filename: "f.txt", Reader: errReader{readErr}}})
	assert.True(t, errors.Is(err, readErr))
}

func TestMultipartEncoder_GeneratedBoundary(t *testing.T) {
	encoder := &MultipartEncoder{Streams: NewFactory()}
	_, first, err := encoder.Encode(nil)
	require.NoError(t, err)
	_, second, err := encoder.Encode(nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "boundary=httpcase-")
}

func TestFilePart_MissingFile(t *testing.T) {
	_, err := FilePart("f", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
