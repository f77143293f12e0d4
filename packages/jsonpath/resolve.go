package jsonpath

import (
	"fmt"
	"reflect"
	"strconv"
)

// NotFoundError reports the first segment that could not be followed.
type NotFoundError struct {
	Path    string
	Segment string
	Depth   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key not found: %q (missing segment %q at depth %d)", e.Path, e.Segment, e.Depth)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Resolve parses expr and looks it up in root.
func Resolve(root any, expr string) (any, error) {
	path, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	value, err := path.Lookup(root)
	if nf, ok := err.(*NotFoundError); ok {
		nf.Path = expr
	}
	return value, err
}

// Lookup walks root one segment at a time.
//
// Mappings are indexed by key and sequences by a numeric key. When a bracket
// segment is missing from a nested mapping, the mapping that held the last
// plain segment is also searched for the literal form-field key, e.g.
// "nest[key 1]", which is how servers that do not re-nest form fields echo
// them back.
func (p Path) Lookup(root any) (any, error) {
	current, found := root, true
	miss := 0

	var flatParent any
	flatKey := ""

	for i, seg := range p {
		var next any
		ok := false
		if found {
			next, ok = child(current, seg.Key)
		}

		switch {
		case !seg.Bracket:
			if !found {
				return nil, p.notFound(miss)
			}
			flatParent, flatKey = current, seg.Key
		case flatKey != "":
			flatKey += "[" + seg.Key + "]"
			if !ok {
				next, ok = child(flatParent, flatKey)
			}
		}

		if !ok {
			if found {
				miss = i
			}
			found = false
			continue
		}
		current, found = next, true
	}

	if !found {
		return nil, p.notFound(miss)
	}
	return current, nil
}

func (p Path) notFound(depth int) *NotFoundError {
	return &NotFoundError{Path: p.String(), Segment: p[depth].Key, Depth: depth}
}

// child returns the value stored under key in a mapping or sequence.
func child(node any, key string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[key]
		return v, ok
	case []any:
		idx, ok := index(key, len(n))
		if !ok {
			return nil, false
		}
		return n[idx], true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, ok := index(key, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	}
	return nil, false
}

func index(key string, length int) (int, bool) {
	if key == "" || key[0] == '+' || key[0] == '-' {
		return 0, false
	}
	idx, err := strconv.Atoi(key)
	if err != nil || idx >= length {
		return 0, false
	}
	return idx, true
}
