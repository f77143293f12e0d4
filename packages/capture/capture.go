package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/httpcase/packages/http"
	keypath "github.com/abdul-hamid-achik/httpcase/packages/jsonpath"
)

// ErrNotCaptured is returned when a capture source yields no value.
var ErrNotCaptured = errors.New("value not captured")

type Source int

const (
	SourceBody Source = iota + 1
	SourceHeader
	SourceStatus
	SourceDuration
)

func (s Source) String() string {
	switch s {
	case SourceBody:
		return "body"
	case SourceHeader:
		return "header"
	case SourceStatus:
		return "status"
	case SourceDuration:
		return "duration"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Capture names one value to pull out of a response. Path is a header name
// for SourceHeader and a dotted/bracketed key path for SourceBody; an empty
// body path captures the whole body.
type Capture struct {
	Name   string
	Source Source
	Path   string
}

// Parse reads a capture definition of the form name=source[:path], for
// example id=body:data.items[0].id, token=header:X-Token or code=status.
func Parse(def string) (*Capture, error) {
	name, src, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid capture %q: expected name=source", def)
	}

	kind, path, _ := strings.Cut(strings.TrimSpace(src), ":")
	c := &Capture{Name: name, Path: path}
	switch strings.ToLower(kind) {
	case "body", "json":
		c.Source = SourceBody
		if path != "" {
			if _, err := keypath.Parse(path); err != nil {
				return nil, fmt.Errorf("invalid capture %q: %w", def, err)
			}
		}
	case "header":
		if path == "" {
			return nil, fmt.Errorf("invalid capture %q: header name required", def)
		}
		c.Source = SourceHeader
	case "status":
		c.Source = SourceStatus
	case "duration":
		c.Source = SourceDuration
	default:
		return nil, fmt.Errorf("invalid capture %q: unknown source %q", def, kind)
	}
	return c, nil
}

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
	value    any
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
		e.value = e.bodyJSON.Value()
	}
	return e
}

// Extract returns the captured value, or an error matching ErrNotCaptured.
func (e *Extractor) Extract(c *Capture) (any, error) {
	switch c.Source {
	case SourceBody:
		return e.extractFromBody(c.Path)
	case SourceHeader:
		return e.extractFromHeader(c.Path)
	case SourceStatus:
		return e.response.StatusCode, nil
	case SourceDuration:
		return e.response.DurationMs(), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %s", ErrNotCaptured, c.Source)
	}
}

func (e *Extractor) extractFromBody(path string) (any, error) {
	if !e.bodyJSON.Exists() {
		if path == "" {
			return e.response.BodyString(), nil
		}
		return nil, fmt.Errorf("%w: body is not JSON", ErrNotCaptured)
	}

	if path == "" {
		return e.value, nil
	}

	v, err := keypath.Resolve(e.value, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCaptured, err)
	}
	return v, nil
}

func (e *Extractor) extractFromHeader(name string) (any, error) {
	if !e.response.HasHeader(name) {
		return nil, fmt.Errorf("%w: header %s missing", ErrNotCaptured, name)
	}
	return e.response.HeaderLine(name), nil
}

// ExtractAll runs every capture. Values that could be captured are returned
// even when others fail; the failures are combined into one error.
func ExtractAll(resp *http.Response, captures []*Capture) (map[string]any, error) {
	extractor := NewExtractor(resp)
	results := make(map[string]any, len(captures))

	var result *multierror.Error
	for _, c := range captures {
		value, err := extractor.Extract(c)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("capture %s: %w", c.Name, err))
			continue
		}
		results[c.Name] = value
	}

	return results, result.ErrorOrNil()
}
