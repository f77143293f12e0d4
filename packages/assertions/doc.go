// Package assertions provides chained assertions over a received response.
//
// Supported assertions:
//   - Status code (AssertStatusCode(200))
//   - Redirect target (AssertLocation("https://example.com/get"))
//   - Header lines (AssertHeader("Content-Type", "application/json"))
//   - JSON keys by dotted/bracketed path (AssertJSONKey("args.nest[key 1]", "value 1"))
//   - JSONPath expressions (AssertJSONPath("$.args.key", "value"))
//   - JSON Schema validation (AssertJSONSchema("./schema.json"))
//
// Every Assert method has a Check counterpart returning a *Failure instead of
// failing the test, for callers that collect results.
package assertions
