package form

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Expand rebuilds the nested structure encoded in bracketed field names.
//
// "nest[key 1]=v" becomes {"nest": {"key 1": "v"}}. An empty index ("ids[]")
// appends, and a level whose keys are exactly 0..n-1 becomes a []any. A field
// given more than once yields a []any of its values. Names with an unbalanced
// bracket are kept literally.
func Expand(values url.Values) map[string]any {
	root := map[string]any{}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		vals := values[k]
		if len(vals) == 0 {
			continue
		}
		path := splitKey(k)
		if len(path) > 1 && path[len(path)-1] == "" {
			for _, v := range vals {
				assign(root, path, v)
			}
			continue
		}
		var leaf any = vals[0]
		if len(vals) > 1 {
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			leaf = list
		}
		assign(root, path, leaf)
	}

	for k, v := range root {
		root[k] = listify(v)
	}
	return root
}

// splitKey splits "a[b][c]" into a, b, c.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}

	parts := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		parts = append(parts, rest[1:end])
		rest = rest[end+1:]
	}
	return parts
}

func assign(node map[string]any, path []string, leaf any) {
	for i, seg := range path {
		if seg == "" {
			seg = strconv.Itoa(len(node))
		}
		if i == len(path)-1 {
			node[seg] = leaf
			return
		}
		next, ok := node[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[seg] = next
		}
		node = next
	}
}

func listify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, item := range m {
		m[k] = listify(item)
	}
	if len(m) == 0 {
		return m
	}
	list := make([]any, len(m))
	for k, item := range m {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= len(m) || strconv.Itoa(idx) != k {
			return m
		}
		list[idx] = item
	}
	return list
}
