package jsonpath

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPath is matched by every *ParseError.
	ErrMalformedPath = errors.New("malformed path")
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("key not found")
)

// Segment is one step of a Path.
type Segment struct {
	Key     string
	Bracket bool // written as [Key]
}

// Path is a parsed path expression.
type Path []Segment

// ParseError describes a path expression that does not follow the grammar.
type ParseError struct {
	Path   string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedPath
}

// Parse splits a path expression into segments.
//
// A bracket starts a new segment without a preceding dot: "a.b[c d].e"
// yields a, b, c d, e. An empty expression yields an empty Path.
func Parse(expr string) (Path, error) {
	path := Path{}
	afterDot := false

	for i := 0; i < len(expr); {
		switch expr[i] {
		case '[':
			if afterDot {
				return nil, &ParseError{Path: expr, Offset: i, Reason: "empty segment before '['"}
			}
			end := strings.IndexByte(expr[i+1:], ']')
			if end < 0 {
				return nil, &ParseError{Path: expr, Offset: i, Reason: "unterminated bracket"}
			}
			if end == 0 {
				return nil, &ParseError{Path: expr, Offset: i, Reason: "empty bracket segment"}
			}
			path = append(path, Segment{Key: expr[i+1 : i+1+end], Bracket: true})
			i += end + 2
			afterDot = false
		case '.':
			if afterDot || len(path) == 0 {
				return nil, &ParseError{Path: expr, Offset: i, Reason: "empty segment"}
			}
			afterDot = true
			i++
		default:
			if len(path) > 0 && !afterDot {
				return nil, &ParseError{Path: expr, Offset: i, Reason: "expected '.' or '[' after ']'"}
			}
			end := strings.IndexAny(expr[i:], ".[")
			if end < 0 {
				end = len(expr) - i
			}
			path = append(path, Segment{Key: expr[i : i+end]})
			i += end
			afterDot = false
		}
	}

	if afterDot {
		return nil, &ParseError{Path: expr, Offset: len(expr) - 1, Reason: "trailing '.'"}
	}
	return path, nil
}

// MustParse is like Parse but panics on a malformed expression.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path in canonical form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.Bracket {
			b.WriteByte('[')
			b.WriteString(seg.Key)
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Keys returns the segment keys in order.
func (p Path) Keys() []string {
	keys := make([]string, len(p))
	for i, seg := range p {
		keys[i] = seg.Key
	}
	return keys
}
