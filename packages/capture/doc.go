// Package capture extracts values from HTTP responses.
//
// It supports capturing values from:
//   - Response body (dotted/bracketed key paths, or the whole body)
//   - Response headers
//   - Response status code and duration
//
// The CLI prints captured values as name=value lines so shell scripts can
// chain requests.
package capture
