// Package cmd implements the httpcase CLI commands using Cobra.
//
// Available commands:
//   - get, post, put, delete: Send one request and check the response
//   - serve: Run the bundled echo server
//   - version: Show httpcase version information
//   - completion: Generate shell completion scripts
package cmd
