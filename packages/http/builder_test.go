package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(opts ...BuilderOption) *Builder {
	f := NewFactory()
	return NewBuilder(f, f, f, opts...)
}

func TestBuilder_Query(t *testing.T) {
	req, err := newBuilder().Build(context.Background(), "GET", "https://example.com/get?old=1", Options{
		Query: map[string]any{
			"key":  "value",
			"nest": map[string]any{"key 1": "value 1"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/get", req.URL.Path)
	assert.Equal(t, "key=value&nest%5Bkey%201%5D=value%201", req.URL.RawQuery)
	assert.Equal(t, "value 1", req.URL.Query().Get("nest[key 1]"))
	assert.Empty(t, req.URL.Query().Get("old"))
	assert.Equal(t, int64(0), req.ContentLength)
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestBuilder_KeepsURIQueryWithoutQueryOption(t *testing.T) {
	req, err := newBuilder().Build(context.Background(), "GET", "https://example.com/get?old=1", Options{})
	require.NoError(t, err)
	assert.Equal(t, "old=1", req.URL.RawQuery)
}

func TestBuilder_FormData(t *testing.T) {
	for _, method := range []string{"POST", "PUT", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			req, err := newBuilder().Build(context.Background(), method, "https://example.com/post", Options{
				Query: map[string]any{"q": "1"},
				Data: map[string]any{
					"key":  "value",
					"nest": map[string]any{"key 1": "value 1"},
				},
			})
			require.NoError(t, err)

			assert.Equal(t, method, req.Method)
			assert.Equal(t, ContentTypeForm, req.Header.Get("Content-Type"))
			assert.Equal(t, "q=1", req.URL.RawQuery)

			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.Equal(t, "key=value&nest%5Bkey+1%5D=value+1", string(body))
			assert.Equal(t, int64(len(body)), req.ContentLength)

			parsed, err := url.ParseQuery(string(body))
			require.NoError(t, err)
			assert.Equal(t, "value 1", parsed.Get("nest[key 1]"))
			assert.Empty(t, parsed.Get("q"))
		})
	}
}

func TestBuilder_MultipartWinsOverData(t *testing.T) {
	req, err := newBuilder(WithBoundary("fixed-boundary")).Build(context.Background(), "POST", "https://example.com/post", Options{
		Data:      map[string]any{"ignored": "yes"},
		Multipart: []Part{{Name: "hoge", Contents: "hoge value"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "multipart/form-data; boundary=fixed-boundary", req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "hoge value")
	assert.NotContains(t, string(body), "ignored")
}

func TestBuilder_MultipartFileUpload(t *testing.T) {
	stream := &trackingReader{Reader: strings.NewReader("# README\n")}

	req, err := newBuilder().Build(context.Background(), "PUT", "https://example.com/put", Options{
		Multipart: []Part{
			{Name: "hoge", Contents: "hoge value"},
			{Name: "file A", Filename: "fileA.txt", Reader: stream},
			{Name: "file B", Filename: "fileB.txt", Contents: "file contents"},
		},
	})
	require.NoError(t, err)
	assert.True(t, stream.closed)

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.True(t, strings.HasPrefix(params["boundary"], "httpcase-"))

	form, err := multipart.NewReader(req.Body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"hoge value"}, form.Value["hoge"])
	require.Len(t, form.File["file A"], 1)
	assert.Equal(t, "fileA.txt", form.File["file A"][0].Filename)
	assert.Equal(t, int64(len("# README\n")), form.File["file A"][0].Size)
	require.Len(t, form.File["file B"], 1)
	assert.Equal(t, "fileB.txt", form.File["file B"][0].Filename)
}

func TestBuilder_UnsupportedMethod(t *testing.T) {
	_, err := newBuilder().Build(context.Background(), "PATCH", "https://example.com", Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedMethod))
}

func TestBuilder_URIErrorSurfacesUnchanged(t *testing.T) {
	uriErr := errors.New("bad uri")
	f := NewFactory()
	b := NewBuilder(f, failingURIs{err: uriErr}, f)

	_, err := b.Build(context.Background(), "GET", "::not a uri", Options{})
	assert.Same(t, uriErr, err)
}

func TestBuilder_ClosesReadersOnError(t *testing.T) {
	f := NewFactory()
	tests := []struct {
		name    string
		builder *Builder
		method  string
		parts   func(*trackingReader) []Part
	}{
		{
			name:    "unsupported method",
			builder: newBuilder(),
			method:  "PATCH",
			parts:   func(r *trackingReader) []Part { return []Part{{Name: "f", Filename: "f.txt", Reader: r}} },
		},
		{
			name:    "uri factory error",
			builder: NewBuilder(f, failingURIs{err: errors.New("bad uri")}, f),
			method:  "POST",
			parts:   func(r *trackingReader) []Part { return []Part{{Name: "f", Filename: "f.txt", Reader: r}} },
		},
		{
			name:    "earlier part fails",
			builder: newBuilder(),
			method:  "POST",
			parts: func(r *trackingReader) []Part {
				return []Part{{Contents: "no name"}, {Name: "f", Filename: "f.txt", Reader: r}}
			},
		},
		{
			name:    "part without name",
			builder: newBuilder(),
			method:  "POST",
			parts:   func(r *trackingReader) []Part { return []Part{{Filename: "f.txt", Reader: r}} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := &trackingReader{Reader: strings.NewReader("contents")}
			_, err := tt.builder.Build(context.Background(), tt.method, "https://example.com/post", Options{
				Multipart: tt.parts(stream),
			})
			require.Error(t, err)
			assert.True(t, stream.closed)
		})
	}
}

func TestBuilder_PassesURIThroughWithoutValidation(t *testing.T) {
	req, err := newBuilder().Build(context.Background(), "GET", "/relative/path", Options{})
	require.NoError(t, err)
	assert.Equal(t, "/relative/path", req.URL.String())
}

func TestMergeOptions(t *testing.T) {
	merged := MergeOptions(
		Options{Query: map[string]any{"a": "1"}, Multipart: []Part{{Name: "x"}}},
		Options{Query: map[string]any{"a": "2", "b": "3"}, Data: map[string]any{"d": "4"}, Multipart: []Part{{Name: "y"}}},
	)

	assert.Equal(t, map[string]any{"a": "2", "b": "3"}, merged.Query)
	assert.Equal(t, map[string]any{"d": "4"}, merged.Data)
	assert.Equal(t, []Part{{Name: "x"}, {Name: "y"}}, merged.Multipart)

	assert.Equal(t, Options{}, MergeOptions())
}

type trackingReader struct {
	io.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

type failingURIs struct {
	err error
}

func (f failingURIs) CreateURI(string) (*url.URL, error) {
	return nil, f.err
}
