package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Sender sends a request and returns the fully read response. Transport
// failures are returned as errors and never converted into responses.
type Sender interface {
	Send(req *http.Request) (*Response, error)
}

// RequestFactory creates an empty request for a method and URI.
type RequestFactory interface {
	CreateRequest(ctx context.Context, method string, uri *url.URL) (*http.Request, error)
}

// URIFactory parses a URI string.
type URIFactory interface {
	CreateURI(uri string) (*url.URL, error)
}

// Stream is a sized request body.
type Stream interface {
	io.Reader
	Size() int64
}

// StreamFactory creates request bodies.
type StreamFactory interface {
	CreateStream(content string) Stream
	// CreateStreamFromResource reads r to completion exactly once and closes
	// it when it is an io.Closer.
	CreateStreamFromResource(r io.Reader) (Stream, error)
}
