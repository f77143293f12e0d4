// Package env handles variables for command-line requests.
//
// It provides functionality for:
//   - Loading .env files
//   - Variable interpolation using {{variable}} syntax
//   - Process environment lookups using {{$NAME}}
package env
