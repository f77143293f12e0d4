package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"
)

// JSONOutput is the machine-readable form of a Result
type JSONOutput struct {
	Method   string         `json:"method"`
	URL      string         `json:"url"`
	Passed   bool           `json:"passed"`
	Error    string         `json:"error,omitempty"`
	Response *JSONResponse  `json:"response,omitempty"`
	Checks   []JSONCheck    `json:"checks,omitempty"`
	Captures map[string]any `json:"captures,omitempty"`
}

type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       json.RawMessage   `json:"body,omitempty"`
	Duration   float64           `json:"duration"`
}

type JSONCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// JSONFormatter writes each result as one indented JSON document
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *Result) {
	out := JSONOutput{
		Method:   result.Method,
		URL:      result.URL,
		Passed:   result.Passed(),
		Captures: result.Captures,
	}

	if result.Err != nil {
		out.Error = result.Err.Error()
	}

	if resp := result.Response; resp != nil {
		headers := make(map[string]string, len(resp.Headers))
		for name := range resp.Headers {
			headers[name] = resp.HeaderLine(name)
		}
		out.Response = &JSONResponse{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Headers:    headers,
			Body:       rawBody(resp.Body),
			Duration:   float64(resp.Duration.Milliseconds()),
		}
	}

	for _, c := range result.Checks {
		check := JSONCheck{Name: c.Name, Passed: c.Passed}
		if c.Err != nil {
			check.Message = c.Err.Error()
		}
		out.Checks = append(out.Checks, check)
	}

	f.encode(out)
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(map[string]string{"error": err.Error()})
}

func (f *JSONFormatter) encode(v any) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}

// rawBody embeds JSON bodies as-is and anything else as a JSON string.
func rawBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := marshal(string(body))
	return quoted
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SortedCaptureLines renders captures as name=value lines in name order,
// with JSON encoding for anything that is not a string.
func SortedCaptureLines(captures map[string]any) []string {
	names := make([]string, 0, len(captures))
	for name := range captures {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value, ok := captures[name].(string)
		if !ok {
			data, err := marshal(captures[name])
			if err != nil {
				continue
			}
			value = string(data)
		}
		lines = append(lines, name+"="+strings.ReplaceAll(value, "\n", "\\n"))
	}
	return lines
}
