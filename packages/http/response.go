package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Header returns the first value of the named header.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

// HasHeader reports whether the named header is present, even if empty.
func (r *Response) HasHeader(key string) bool {
	_, ok := r.Headers[http.CanonicalHeaderKey(key)]
	return ok
}

// HeaderLine returns all values of the named header joined by ", ".
func (r *Response) HeaderLine(key string) string {
	return strings.Join(r.Headers.Values(key), ", ")
}

func (r *Response) Location() string {
	return r.HeaderLine("Location")
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
