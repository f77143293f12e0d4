package testcase

import (
	"context"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"github.com/abdul-hamid-achik/httpcase/packages/assertions"
	"github.com/abdul-hamid-achik/httpcase/packages/http"
)

// TestCase sends requests through an Environment and wraps each response for
// assertions. It holds no state between requests.
type TestCase struct {
	t       assertions.TestingT
	env     Environment
	ctx     context.Context
	logger  pslog.Base
	baseURL string
}

type Option func(*TestCase)

// WithContext sets the context every request is built with.
func WithContext(ctx context.Context) Option {
	return func(tc *TestCase) {
		if ctx != nil {
			tc.ctx = ctx
		}
	}
}

func WithLogger(logger pslog.Base) Option {
	return func(tc *TestCase) {
		if logger != nil {
			tc.logger = logger
		}
	}
}

// WithBaseURL prefixes URIs that carry no scheme. Absolute URIs are used
// as given.
func WithBaseURL(baseURL string) Option {
	return func(tc *TestCase) {
		tc.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func New(t assertions.TestingT, env Environment, opts ...Option) *TestCase {
	tc := &TestCase{
		t:      t,
		env:    env,
		ctx:    context.Background(),
		logger: pslog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

func (tc *TestCase) Get(uri string, opts ...http.Options) *assertions.Response {
	tc.t.Helper()
	return tc.call(nethttp.MethodGet, uri, opts)
}

func (tc *TestCase) Post(uri string, opts ...http.Options) *assertions.Response {
	tc.t.Helper()
	return tc.call(nethttp.MethodPost, uri, opts)
}

func (tc *TestCase) Put(uri string, opts ...http.Options) *assertions.Response {
	tc.t.Helper()
	return tc.call(nethttp.MethodPut, uri, opts)
}

func (tc *TestCase) Delete(uri string, opts ...http.Options) *assertions.Response {
	tc.t.Helper()
	return tc.call(nethttp.MethodDelete, uri, opts)
}

func (tc *TestCase) call(method, uri string, opts []http.Options) *assertions.Response {
	tc.t.Helper()
	resp, err := tc.Send(method, uri, opts...)
	require.NoError(tc.t, err, "%s %s", method, uri)
	return assertions.New(tc.t, resp)
}

// Send builds and sends one request and returns the raw response. Build and
// transport errors are returned unchanged.
func (tc *TestCase) Send(method, uri string, opts ...http.Options) (*http.Response, error) {
	builder := http.NewBuilder(tc.env.RequestFactory(), tc.env.URIFactory(), tc.env.StreamFactory())

	req, err := builder.Build(tc.ctx, method, tc.resolve(uri), http.MergeOptions(opts...))
	if err != nil {
		return nil, err
	}

	tc.logger.Debug("testcase send", "method", req.Method, "url", req.URL.String())

	resp, err := tc.env.Client().Send(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (tc *TestCase) resolve(uri string) string {
	if tc.baseURL == "" || strings.Contains(uri, "://") {
		return uri
	}
	return tc.baseURL + "/" + strings.TrimLeft(uri, "/")
}
