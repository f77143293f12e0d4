package http

import (
	"io"
	"os"
	"path/filepath"
)

// Options describes what goes into a request besides its method and URI.
//
// Query is always encoded into the URL. Data is sent as an
// application/x-www-form-urlencoded body unless Multipart is set, in which
// case the body is multipart/form-data and Data is ignored. Map values may be
// strings, numbers, bools, nested maps or slices; nesting is encoded as
// bracketed field names (nest[key]).
type Options struct {
	Query     map[string]any
	Data      map[string]any
	Multipart []Part
}

// Part is one field of a multipart body. A part with a Filename is a file
// upload. When Reader is set it is read to completion once while the body is
// built and Contents is ignored.
type Part struct {
	Name        string
	Contents    string
	Reader      io.Reader
	Filename    string
	ContentType string
}

// FilePart opens path for upload under the given field name. The file is
// closed once the request body has been built.
func FilePart(name, path string) (Part, error) {
	f, err := os.Open(path)
	if err != nil {
		return Part{}, err
	}
	return Part{Name: name, Reader: f, Filename: filepath.Base(path)}, nil
}

// MergeOptions combines several Options. Later map entries win and multipart
// parts are concatenated in order.
func MergeOptions(opts ...Options) Options {
	var merged Options
	for _, o := range opts {
		merged.Query = mergeMap(merged.Query, o.Query)
		merged.Data = mergeMap(merged.Data, o.Data)
		if o.Multipart != nil {
			merged.Multipart = append(merged.Multipart, o.Multipart...)
		}
	}
	return merged
}

func mergeMap(dst, src map[string]any) map[string]any {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
