package assertions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/xeipuuv/gojsonschema"

	keypath "github.com/abdul-hamid-achik/httpcase/packages/jsonpath"
)

// CheckStatusCode compares the response status with expected.
func (r *Response) CheckStatusCode(expected int) error {
	if r.resp.StatusCode == expected {
		return nil
	}
	return &Failure{Kind: StatusMismatch, Subject: "status", Expected: expected, Actual: r.resp.StatusCode}
}

// CheckLocation compares the literal Location header with expected.
func (r *Response) CheckLocation(expected string) error {
	if !r.resp.HasHeader("Location") {
		return &Failure{Kind: LocationMissing, Subject: "Location", Expected: expected}
	}
	actual := r.resp.Location()
	if actual != expected {
		return &Failure{Kind: LocationMismatch, Subject: "Location", Expected: expected, Actual: actual}
	}
	return nil
}

// CheckHeader compares the header line of name with expected. A missing
// header compares as the empty string.
func (r *Response) CheckHeader(name, expected string) error {
	actual := r.resp.HeaderLine(name)
	if actual != expected {
		return &Failure{Kind: HeaderMismatch, Subject: name, Expected: expected, Actual: actual}
	}
	return nil
}

// CheckJSONKey resolves path in the decoded body and compares the value with
// expected using deep equality. expected is normalized through JSON first, so
// 1 and 1.0 are equal while "1" and 1 are not.
func (r *Response) CheckJSONKey(path string, expected any) error {
	parsed, err := keypath.Parse(path)
	if err != nil {
		return &Failure{Kind: ParseError, Subject: path, Expected: expected, Err: err}
	}

	root, err := r.JSON()
	if err != nil {
		return &Failure{Kind: InvalidJSON, Subject: path, Expected: expected, Err: err}
	}

	actual, err := parsed.Lookup(root)
	if err != nil {
		var nf *keypath.NotFoundError
		if errors.As(err, &nf) {
			nf.Path = path
		}
		return &Failure{Kind: PathNotFound, Subject: path, Expected: expected, Err: err}
	}

	return compare(path, expected, actual)
}

// CheckJSONPath evaluates a JSONPath expression such as $.args.key or
// $.args.nest['key 1'] against the decoded body.
func (r *Response) CheckJSONPath(expr string, expected any) error {
	eval, err := jsonpath.New(doubleQuoteKeys(expr))
	if err != nil {
		return &Failure{Kind: ParseError, Subject: expr, Expected: expected, Err: err}
	}

	root, err := r.JSON()
	if err != nil {
		return &Failure{Kind: InvalidJSON, Subject: expr, Expected: expected, Err: err}
	}

	actual, err := eval(context.Background(), root)
	if err != nil {
		return &Failure{Kind: PathNotFound, Subject: expr, Expected: expected, Err: err}
	}

	return compare(expr, expected, actual)
}

// CheckJSONSchema validates the body against a JSON Schema given inline or as
// a file path.
func (r *Response) CheckJSONSchema(schema string) error {
	if _, err := r.JSON(); err != nil {
		return &Failure{Kind: InvalidJSON, Subject: "schema", Err: err}
	}

	schemaData := []byte(schema)
	if trimmed := strings.TrimSpace(schema); !strings.HasPrefix(trimmed, "{") {
		data, err := os.ReadFile(schema)
		if err != nil {
			return &Failure{Kind: SchemaMismatch, Subject: schema, Err: fmt.Errorf("failed to read schema file: %w", err)}
		}
		schemaData = data
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(r.resp.Body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &Failure{Kind: SchemaMismatch, Subject: schema, Err: fmt.Errorf("schema validation error: %w", err)}
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return &Failure{Kind: SchemaMismatch, Subject: schema, Err: errors.New(strings.Join(errs, "; "))}
}

// doubleQuoteKeys rewrites ['key'] selectors as ["key"]; the JSONPath
// parser only reads double-quoted strings.
func doubleQuoteKeys(expr string) string {
	var b strings.Builder
	for {
		start := strings.Index(expr, "['")
		if start < 0 {
			break
		}
		end := strings.Index(expr[start+2:], "']")
		if end < 0 {
			break
		}
		key := strings.ReplaceAll(expr[start+2:start+2+end], `\'`, "'")
		b.WriteString(expr[:start])
		b.WriteString("[")
		b.WriteString(strconv.Quote(key))
		b.WriteString("]")
		expr = expr[start+2+end+2:]
	}
	b.WriteString(expr)
	return b.String()
}

func compare(subject string, expected, actual any) error {
	if assert.ObjectsAreEqual(normalize(expected), actual) {
		return nil
	}
	return &Failure{Kind: ValueMismatch, Subject: subject, Expected: expected, Actual: actual}
}

// normalize converts expected into the shape produced by JSON decoding.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
