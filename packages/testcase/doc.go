// Package testcase sends GET, POST, PUT and DELETE requests through
// pluggable capabilities and returns responses ready for chained assertions.
//
//	tc := testcase.New(t, testcase.DefaultEnvironment(nil, nil))
//	tc.Get("https://example.com/get", http.Options{
//		Query: map[string]any{"key": "value"},
//	}).AssertStatusCode(200).AssertJSONKey("args.key", "value")
package testcase
