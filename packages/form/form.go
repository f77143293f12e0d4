package form

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Pair is one encoded field.
type Pair struct {
	Key   string
	Value string
}

// Flatten turns a nested map into ordered field pairs. Keys are visited in
// sorted order at every level so the output is deterministic. Nil values are
// skipped.
func Flatten(values map[string]any) []Pair {
	var pairs []Pair
	for _, k := range sortedKeys(values) {
		pairs = flatten(pairs, k, values[k])
	}
	return pairs
}

// Values returns the flattened fields as url.Values.
func Values(values map[string]any) url.Values {
	out := url.Values{}
	for _, p := range Flatten(values) {
		out.Add(p.Key, p.Value)
	}
	return out
}

// Encode returns the application/x-www-form-urlencoded form of values.
// Spaces become "+".
func Encode(values map[string]any) string {
	return encode(values, url.QueryEscape)
}

// EncodeQuery returns values as a URL query string escaped per RFC 3986.
// Spaces become "%20".
func EncodeQuery(values map[string]any) string {
	return encode(values, queryEscape)
}

func encode(values map[string]any, escape func(string) string) string {
	pairs := Flatten(values)
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = escape(p.Key) + "=" + escape(p.Value)
	}
	return strings.Join(parts, "&")
}

// queryEscape is url.QueryEscape with spaces as %20. A literal "+" is
// already escaped as %2B.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func flatten(pairs []Pair, key string, value any) []Pair {
	switch v := value.(type) {
	case nil:
		return pairs
	case string:
		return append(pairs, Pair{Key: key, Value: v})
	case []byte:
		return append(pairs, Pair{Key: key, Value: string(v)})
	case map[string]any:
		for _, k := range sortedKeys(v) {
			pairs = flatten(pairs, key+"["+k+"]", v[k])
		}
		return pairs
	case []any:
		for i, item := range v {
			pairs = flatten(pairs, key+"["+strconv.Itoa(i)+"]", item)
		}
		return pairs
	case fmt.Stringer:
		return append(pairs, Pair{Key: key, Value: v.String()})
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			item := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			pairs = flatten(pairs, key+"["+k+"]", item.Interface())
		}
		return pairs
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			pairs = flatten(pairs, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return pairs
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return pairs
		}
		return flatten(pairs, key, rv.Elem().Interface())
	}
	return append(pairs, Pair{Key: key, Value: scalar(value)})
}

func scalar(v any) string {
	switch n := v.(type) {
	case bool:
		return strconv.FormatBool(n)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
