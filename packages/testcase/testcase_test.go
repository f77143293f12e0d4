package testcase

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/httpcase/packages/assertions"
	"github.com/abdul-hamid-achik/httpcase/packages/core/config"
	"github.com/abdul-hamid-achik/httpcase/packages/echo"
	"github.com/abdul-hamid-achik/httpcase/packages/http"
)

// recorder is a TestingT that records failures instead of stopping the test.
type recorder struct {
	messages []string
	failNow  int
}

func (r *recorder) Errorf(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() { r.failNow++ }

func (r *recorder) Helper() {}

func setupEcho(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(echo.NewServer().Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestCase(t *testing.T, opts ...Option) *TestCase {
	return New(t, DefaultEnvironment(nil, nil), opts...)
}

func TestGet_QueryEcho(t *testing.T) {
	base := setupEcho(t)
	tc := newTestCase(t)

	tc.Get(base+"/get", http.Options{
		Query: map[string]any{
			"key":  "value",
			"nest": map[string]any{"key 1": "value 1"},
		},
	}).
		AssertStatusCode(200).
		AssertJSONKey("args.key", "value").
		AssertJSONKey("args.nest[key 1]", "value 1").
		AssertJSONKey("args.nest", map[string]string{"key 1": "value 1"}).
		AssertJSONKey("method", "GET")
}

func TestGet_RedirectThenFollow(t *testing.T) {
	base := setupEcho(t)
	tc := newTestCase(t)
	target := base + "/get"

	resp := tc.Get(base+"/redirect-to", http.Options{
		Query: map[string]any{"url": target, "status_code": 200},
	}).
		AssertStatusCode(302).
		AssertLocation(target)

	tc.Get(resp.HeaderLine("Location"), http.Options{
		Query: map[string]any{"followed": "yes"},
	}).
		AssertStatusCode(200).
		AssertJSONKey("args.followed", "yes")
}

func TestFormMethods(t *testing.T) {
	base := setupEcho(t)
	tc := newTestCase(t)

	data := http.Options{Data: map[string]any{
		"key":  "value",
		"nest": map[string]any{"key 1": "value 1"},
		"n":    3,
		"ok":   true,
	}}

	tests := []struct {
		method string
		call   func(string, ...http.Options) *assertions.Response
	}{
		{"POST", tc.Post},
		{"PUT", tc.Put},
		{"DELETE", tc.Delete},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			path := "/" + strings.ToLower(tt.method)
			tt.call(base+path, data, http.Options{Query: map[string]any{"q": "1"}}).
				AssertStatusCode(200).
				AssertJSONKey("method", tt.method).
				AssertJSONKey("form.key", "value").
				AssertJSONKey("form.nest[key 1]", "value 1").
				AssertJSONKey("form.n", "3").
				AssertJSONKey("form.ok", "true").
				AssertJSONKey("args.q", "1").
				AssertJSONKey("headers.Content-Type", http.ContentTypeForm)
		})
	}
}

func TestPost_MultipartWithFile(t *testing.T) {
	base := setupEcho(t)
	tc := newTestCase(t)

	path := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte("from disk"), 0644))
	filePart, err := http.FilePart("upload", path)
	require.NoError(t, err)

	tc.Post(base+"/post", http.Options{
		Data: map[string]any{"ignored": "yes"},
		Multipart: []http.Part{
			{Name: "field A", Contents: "value A"},
			{Name: "file B", Filename: "b.txt", Reader: strings.NewReader("file contents")},
			filePart,
		},
	}).
		AssertStatusCode(200).
		AssertJSONKey("form", map[string]any{"field A": "value A"}).
		AssertJSONKey("files.file B", "file contents").
		AssertJSONKey("files.upload", "from disk")
}

func TestGet_NotFoundStatus(t *testing.T) {
	base := setupEcho(t)
	tc := newTestCase(t)

	tc.Get(base + "/status/404").AssertStatusCode(404)

	rec := &recorder{}
	New(rec, DefaultEnvironment(nil, nil)).Get(base + "/status/404").AssertStatusCode(200)
	require.Equal(t, 1, rec.failNow)
	assert.Contains(t, rec.messages[0], "expected 200")
	assert.Contains(t, rec.messages[0], "got 404")
}

func TestWithBaseURL(t *testing.T) {
	base := setupEcho(t)
	tc := newTestCase(t, WithBaseURL(base+"/"))

	tc.Get("/get", http.Options{Query: map[string]any{"a": "b"}}).
		AssertStatusCode(200).
		AssertJSONKey("args.a", "b")

	tc.Get(base + "/status/201").AssertStatusCode(201)
}

func TestSend_ReturnsErrors(t *testing.T) {
	tc := newTestCase(t)

	_, err := tc.Send("PATCH", "http://localhost/patch")
	assert.ErrorIs(t, err, http.ErrUnsupportedMethod)

	_, err = tc.Send("GET", "://bad")
	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
}

func TestTransportErrorAbortsTest(t *testing.T) {
	rec := &recorder{}
	tc := New(rec, &Capabilities{
		Sender:   failingSender{},
		Requests: http.NewFactory(),
		URIs:     http.NewFactory(),
		Streams:  http.NewFactory(),
	})

	tc.Get("http://localhost/get")
	assert.Equal(t, 1, rec.failNow)
	assert.Contains(t, strings.Join(rec.messages, "\n"), "connection refused")
}

func TestCapabilitiesFetchedPerCall(t *testing.T) {
	base := setupEcho(t)
	env := &countingEnv{Capabilities: DefaultEnvironment(nil, nil)}
	tc := New(t, env)

	tc.Get(base + "/get")
	tc.Delete(base + "/delete")

	assert.Equal(t, 2, env.clients)
}

func TestWithContext_Cancelled(t *testing.T) {
	base := setupEcho(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCase(t, WithContext(ctx)).Send("GET", base+"/get")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultEnvironment_FollowRedirects(t *testing.T) {
	base := setupEcho(t)
	cfg := config.DefaultConfig().Merge(&config.Config{FollowRedirects: config.BoolPtr(true)})

	New(t, DefaultEnvironment(cfg, nil)).Get(base + "/redirect/2").
		AssertStatusCode(200).
		AssertJSONKey("url", base+"/get")
}

func TestDefaultEnvironment_Headers(t *testing.T) {
	base := setupEcho(t)
	cfg := &config.Config{Headers: map[string]string{"X-Suite": "httpcase"}}

	New(t, DefaultEnvironment(cfg, nil)).Get(base + "/get").
		AssertJSONKey("headers.X-Suite", "httpcase")
}

type failingSender struct{}

func (failingSender) Send(*nethttp.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type countingEnv struct {
	*Capabilities
	clients int
}

func (e *countingEnv) Client() http.Sender {
	e.clients++
	return e.Capabilities.Client()
}
