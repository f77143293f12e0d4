package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/abdul-hamid-achik/httpcase/packages/form"
)

// ErrUnsupportedMethod is returned for methods other than GET, POST, PUT and
// DELETE.
var ErrUnsupportedMethod = errors.New("unsupported HTTP method")

const (
	ContentTypeForm = "application/x-www-form-urlencoded"
)

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Builder turns a method, a URI and Options into a request using the injected
// factories.
type Builder struct {
	requests RequestFactory
	uris     URIFactory
	streams  StreamFactory
	boundary string
}

type BuilderOption func(*Builder)

// WithBoundary fixes the multipart boundary instead of generating one per
// request.
func WithBoundary(boundary string) BuilderOption {
	return func(b *Builder) {
		b.boundary = boundary
	}
}

func NewBuilder(requests RequestFactory, uris URIFactory, streams StreamFactory, opts ...BuilderOption) *Builder {
	b := &Builder{
		requests: requests,
		uris:     uris,
		streams:  streams,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates the request. The URI is not validated here; errors from the
// URI factory are returned unchanged. Part readers are closed whether or not
// the request could be built.
func (b *Builder) Build(ctx context.Context, method, uri string, opts Options) (_ *http.Request, err error) {
	encoding := false
	defer func() {
		if err != nil && !encoding {
			closeReaders(opts.Multipart)
		}
	}()

	if !supportedMethods[method] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	u, err := b.uris.CreateURI(uri)
	if err != nil {
		return nil, err
	}

	if len(opts.Query) > 0 {
		u.RawQuery = form.EncodeQuery(opts.Query)
	}

	req, err := b.requests.CreateRequest(ctx, method, u)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.Multipart != nil:
		encoding = true
		encoder := &MultipartEncoder{Streams: b.streams, Boundary: b.boundary}
		stream, contentType, err := encoder.Encode(opts.Multipart)
		if err != nil {
			return nil, err
		}
		setBody(req, stream, contentType)
	case opts.Data != nil:
		setBody(req, b.streams.CreateStream(form.Encode(opts.Data)), ContentTypeForm)
	}

	return req, nil
}

func setBody(req *http.Request, body Stream, contentType string) {
	req.Body = io.NopCloser(body)
	req.ContentLength = body.Size()
	if req.ContentLength == 0 {
		req.Body = http.NoBody
	}
	req.Header.Set("Content-Type", contentType)
}
