package jsonpath

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestResolve(t *testing.T) {
	root := decode(t, `{
		"args": {"key": "value", "nest": {"key 1": "value 1"}},
		"items": [{"id": 1}, {"id": 2}],
		"empty": null,
		"flag": true
	}`)

	tests := []struct {
		name     string
		path     string
		expected any
	}{
		{name: "plain", path: "args.key", expected: "value"},
		{name: "bracket with space", path: "args.nest[key 1]", expected: "value 1"},
		{name: "mapping", path: "args.nest", expected: map[string]any{"key 1": "value 1"}},
		{name: "array index dotted", path: "items.1.id", expected: float64(2)},
		{name: "array index bracket", path: "items[0].id", expected: float64(1)},
		{name: "null leaf", path: "empty", expected: nil},
		{name: "bool leaf", path: "flag", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolve_EmptyPathReturnsRoot(t *testing.T) {
	root := map[string]any{"a": 1}
	got, err := Resolve(root, "")
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestResolve_Idempotent(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": 1}}
	first, err := Resolve(root, "a.b")
	require.NoError(t, err)
	second, err := Resolve(root, "a.b")
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, first, second)
}

func TestResolve_NotFound(t *testing.T) {
	root := decode(t, `{"a": 1, "list": [1, 2], "obj": {"x": "y"}}`)

	tests := []struct {
		name    string
		path    string
		segment string
		depth   int
	}{
		{name: "scalar in the middle", path: "a.b", segment: "b", depth: 1},
		{name: "missing top level", path: "missing", segment: "missing", depth: 0},
		{name: "index out of range", path: "list.5", segment: "5", depth: 1},
		{name: "negative index", path: "list.-1", segment: "-1", depth: 1},
		{name: "non numeric index", path: "list.x", segment: "x", depth: 1},
		{name: "missing bracket", path: "obj[z]", segment: "z", depth: 1},
		{name: "missing before bracket", path: "nope[z]", segment: "nope", depth: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.path)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.path, nf.Path)
			assert.Equal(t, tt.segment, nf.Segment)
			assert.Equal(t, tt.depth, nf.Depth)
			assert.Contains(t, err.Error(), "key not found")
		})
	}
}

func TestResolve_MalformedPath(t *testing.T) {
	_, err := Resolve(map[string]any{}, "a..b")
	assert.True(t, errors.Is(err, ErrMalformedPath))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestResolve_FlatFormFieldFallback(t *testing.T) {
	root := decode(t, `{"form": {"key": "value", "nest[key 1]": "value 1", "deep[a][b]": "c"}}`)

	got, err := Resolve(root, "form.nest[key 1]")
	require.NoError(t, err)
	assert.Equal(t, "value 1", got)

	got, err = Resolve(root, "form.deep[a][b]")
	require.NoError(t, err)
	assert.Equal(t, "c", got)

	_, err = Resolve(root, "form.nest[key 2]")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolve_GoTypedContainers(t *testing.T) {
	root := map[string]any{
		"names": []string{"a", "b"},
		"attrs": map[string]string{"k": "v"},
	}

	got, err := Resolve(root, "names.1")
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	got, err = Resolve(root, "attrs[k]")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
