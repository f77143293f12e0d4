package assertions

import (
	"encoding/json"
	"errors"
	"fmt"

	keypath "github.com/abdul-hamid-achik/httpcase/packages/jsonpath"
)

// Kind classifies an assertion failure.
type Kind int

const (
	StatusMismatch Kind = iota + 1
	LocationMissing
	LocationMismatch
	HeaderMismatch
	InvalidJSON
	ParseError
	PathNotFound
	ValueMismatch
	SchemaMismatch
)

var kindNames = map[Kind]string{
	StatusMismatch:   "status mismatch",
	LocationMissing:  "location missing",
	LocationMismatch: "location mismatch",
	HeaderMismatch:   "header mismatch",
	InvalidJSON:      "invalid json",
	ParseError:       "malformed path",
	PathNotFound:     "key not found",
	ValueMismatch:    "value mismatch",
	SchemaMismatch:   "schema mismatch",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Failure is returned by the Check methods and reported by the Assert
// methods. Its message is self-contained.
type Failure struct {
	Kind     Kind
	Subject  string
	Expected any
	Actual   any
	Err      error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case StatusMismatch:
		return fmt.Sprintf("status code mismatch: expected %v, got %v", f.Expected, f.Actual)
	case LocationMissing:
		return fmt.Sprintf("location header missing: expected %q", f.Expected)
	case LocationMismatch:
		return fmt.Sprintf("location mismatch: expected %q, got %q", f.Expected, f.Actual)
	case HeaderMismatch:
		return fmt.Sprintf("header %s mismatch: expected %q, got %q", f.Subject, f.Expected, f.Actual)
	case InvalidJSON:
		return fmt.Sprintf("response body is not valid JSON (checking %q): %v", f.Subject, f.Err)
	case ParseError:
		if errors.Is(f.Err, keypath.ErrMalformedPath) {
			return f.Err.Error()
		}
		return fmt.Sprintf("malformed path %q: %v", f.Subject, f.Err)
	case PathNotFound:
		if errors.Is(f.Err, keypath.ErrNotFound) {
			return f.Err.Error()
		}
		return fmt.Sprintf("key not found: %q: %v", f.Subject, f.Err)
	case ValueMismatch:
		return fmt.Sprintf("value mismatch at %q: expected %s, got %s", f.Subject, formatValue(f.Expected), formatValue(f.Actual))
	case SchemaMismatch:
		return fmt.Sprintf("schema validation failed: %v", f.Err)
	default:
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsKind reports whether err is a *Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(data)
}
