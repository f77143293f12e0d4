// Package http builds and sends the requests issued by httpcase tests.
//
// It defines the capabilities a test environment supplies:
//   - Sender: sends a request (Client is the default)
//   - RequestFactory, URIFactory, StreamFactory: construction primitives
//     (Factory is the default for all three)
//
// On top of those, Builder translates Options (query, form data, multipart
// parts including file uploads) into a ready-to-send request.
package http
