package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Factory is the default RequestFactory, URIFactory and StreamFactory, backed
// by net/http and net/url.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) CreateRequest(ctx context.Context, method string, uri *url.URL) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, uri.String(), nil)
}

func (f *Factory) CreateURI(uri string) (*url.URL, error) {
	return url.Parse(uri)
}

func (f *Factory) CreateStream(content string) Stream {
	return strings.NewReader(content)
}

func (f *Factory) CreateStreamFromResource(r io.Reader) (Stream, error) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
