package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httpcase/packages/assertions"
	"github.com/abdul-hamid-achik/httpcase/packages/form"
	"github.com/abdul-hamid-achik/httpcase/packages/http"
	keypath "github.com/abdul-hamid-achik/httpcase/packages/jsonpath"
	"github.com/abdul-hamid-achik/httpcase/packages/output"
)

// splitAssignment splits "key=value" at the first '=' outside brackets, so
// keys such as nest[a=b] and filters such as $.items[?(@.id==1)] survive.
func splitAssignment(s string) (string, string, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				if i == 0 {
					return "", "", fmt.Errorf("%q: empty key", s)
				}
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("%q: %w", s, errMissingEquals)
}

// parseFields turns key=value pairs into a nested map. Bracketed keys nest
// and repeated keys become lists.
func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := url.Values{}
	for _, p := range pairs {
		key, value, err := splitAssignment(p)
		if err != nil {
			return nil, err
		}
		values.Add(key, value)
	}
	return form.Expand(values), nil
}

// parseParts turns key=value and key=@path pairs into multipart parts, in
// the order given.
func parseParts(pairs []string) ([]http.Part, error) {
	parts := make([]http.Part, 0, len(pairs))
	for _, p := range pairs {
		key, value, err := splitAssignment(p)
		if err != nil {
			return nil, err
		}
		if path, ok := strings.CutPrefix(value, "@"); ok {
			part, err := http.FilePart(key, path)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
			continue
		}
		parts = append(parts, http.Part{Name: key, Contents: value})
	}
	return parts, nil
}

// parseExpectedValue reads value as JSON when it is valid JSON and as a
// plain string otherwise, so count=2 expects a number and name=abc a string.
func parseExpectedValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

type expectation struct {
	name  string
	check func(*assertions.Response) error
}

func parseExpectations(cmd *cobra.Command, f *requestFlags) ([]expectation, error) {
	var out []expectation

	if cmd.Flags().Changed("expect-status") {
		code := f.expectStatus
		out = append(out, expectation{
			name:  fmt.Sprintf("status == %d", code),
			check: func(r *assertions.Response) error { return r.CheckStatusCode(code) },
		})
	}

	if cmd.Flags().Changed("expect-location") {
		location := f.expectLocation
		out = append(out, expectation{
			name:  fmt.Sprintf("location == %s", location),
			check: func(r *assertions.Response) error { return r.CheckLocation(location) },
		})
	}

	for _, line := range f.expectHeaders {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--expect-header %q: expected Name: value", line)
		}
		value = strings.TrimSpace(value)
		out = append(out, expectation{
			name:  fmt.Sprintf("header %s == %s", name, value),
			check: func(r *assertions.Response) error { return r.CheckHeader(name, value) },
		})
	}

	for _, def := range f.expectJSON {
		path, raw, err := splitAssignment(def)
		if err != nil {
			return nil, fmt.Errorf("--expect-json %w", err)
		}
		if _, err := keypath.Parse(path); err != nil {
			return nil, fmt.Errorf("--expect-json: %w", err)
		}
		expected := parseExpectedValue(raw)
		out = append(out, expectation{
			name:  fmt.Sprintf("%s == %s", path, raw),
			check: func(r *assertions.Response) error { return r.CheckJSONKey(path, expected) },
		})
	}

	for _, def := range f.expectJSONPath {
		expr, raw, err := splitAssignment(def)
		if err != nil {
			return nil, fmt.Errorf("--expect-jsonpath %w", err)
		}
		expected := parseExpectedValue(raw)
		out = append(out, expectation{
			name:  fmt.Sprintf("%s == %s", expr, raw),
			check: func(r *assertions.Response) error { return r.CheckJSONPath(expr, expected) },
		})
	}

	if f.expectSchema != "" {
		schema := f.expectSchema
		out = append(out, expectation{
			name:  "body matches schema",
			check: func(r *assertions.Response) error { return r.CheckJSONSchema(schema) },
		})
	}

	return out, nil
}

// evaluate runs every expectation, records each outcome on result and
// returns the combined failures.
func evaluate(resp *http.Response, expectations []expectation, result *output.Result) *multierror.Error {
	wrapped := assertions.New(nil, resp)

	var failures *multierror.Error
	for _, e := range expectations {
		err := e.check(wrapped)
		result.Checks = append(result.Checks, output.Check{Name: e.name, Passed: err == nil, Err: err})
		if err != nil {
			failures = multierror.Append(failures, err)
		}
	}
	return failures
}
