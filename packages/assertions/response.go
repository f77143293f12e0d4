package assertions

import (
	"errors"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/httpcase/packages/http"
	keypath "github.com/abdul-hamid-achik/httpcase/packages/jsonpath"
)

// ErrInvalidJSON is returned by JSON when the body cannot be decoded.
var ErrInvalidJSON = errors.New("invalid JSON body")

// TestingT is the failure-reporting capability; *testing.T satisfies it.
type TestingT interface {
	require.TestingT
	Helper()
}

// Response wraps one response for chained assertions. Each Assert method
// returns the same wrapper on success and fails the test immediately on
// mismatch.
type Response struct {
	t    TestingT
	resp *http.Response

	decoded bool
	body    gjson.Result
	value   any
	jsonErr error
}

func New(t TestingT, resp *http.Response) *Response {
	return &Response{t: t, resp: resp}
}

// AssertStatusCode fails unless the status code equals expected.
func (r *Response) AssertStatusCode(expected int) *Response {
	r.t.Helper()
	r.report(r.CheckStatusCode(expected))
	return r
}

// AssertLocation fails unless the Location header equals expected exactly.
func (r *Response) AssertLocation(expected string) *Response {
	r.t.Helper()
	r.report(r.CheckLocation(expected))
	return r
}

// AssertHeader fails unless the named header line equals expected.
func (r *Response) AssertHeader(name, expected string) *Response {
	r.t.Helper()
	r.report(r.CheckHeader(name, expected))
	return r
}

// AssertJSONKey fails unless path resolves in the JSON body to a value deeply
// equal to expected. See CheckJSONKey.
func (r *Response) AssertJSONKey(path string, expected any) *Response {
	r.t.Helper()
	r.report(r.CheckJSONKey(path, expected))
	return r
}

// AssertJSONPath is AssertJSONKey for JSONPath expressions ($.a.b[0]).
func (r *Response) AssertJSONPath(expr string, expected any) *Response {
	r.t.Helper()
	r.report(r.CheckJSONPath(expr, expected))
	return r
}

// AssertJSONSchema fails unless the body validates against schema, given
// inline or as a file path.
func (r *Response) AssertJSONSchema(schema string) *Response {
	r.t.Helper()
	r.report(r.CheckJSONSchema(schema))
	return r
}

func (r *Response) report(err error) {
	r.t.Helper()
	if err != nil {
		require.Fail(r.t, err.Error())
	}
}

// JSON returns the decoded body. The body is parsed at most once per
// wrapper.
func (r *Response) JSON() (any, error) {
	if !r.decoded {
		r.decoded = true
		if !gjson.ValidBytes(r.resp.Body) {
			r.jsonErr = ErrInvalidJSON
		} else {
			r.body = gjson.ParseBytes(r.resp.Body)
			r.value = r.body.Value()
		}
	}
	return r.value, r.jsonErr
}

// Value resolves a dotted/bracketed path in the JSON body.
func (r *Response) Value(path string) (any, error) {
	root, err := r.JSON()
	if err != nil {
		return nil, err
	}
	return keypath.Resolve(root, path)
}

func (r *Response) StatusCode() int {
	return r.resp.StatusCode
}

func (r *Response) HeaderLine(name string) string {
	return r.resp.HeaderLine(name)
}

func (r *Response) Body() []byte {
	return r.resp.Body
}

func (r *Response) BodyString() string {
	return r.resp.BodyString()
}

// Raw returns the wrapped response.
func (r *Response) Raw() *http.Response {
	return r.resp
}
