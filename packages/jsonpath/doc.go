// Package jsonpath resolves dotted/bracketed key paths against decoded JSON.
//
// Path syntax:
//   - Plain keys separated by dots: args.key
//   - Bracketed keys, which may contain spaces or dots: args.nest[key 1]
//   - Array elements addressed by numeric keys: items.0.name or items[0]
//
// Parsing and resolution are separate steps so a Path can be inspected,
// printed and reused. An empty path resolves to the root value.
package jsonpath
