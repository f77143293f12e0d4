package output

import (
	"time"

	"github.com/abdul-hamid-achik/httpcase/packages/http"
)

// Check is the outcome of one expectation against a response.
type Check struct {
	Name   string
	Passed bool
	Err    error
}

// Result describes one request sent from the command line.
type Result struct {
	Method   string
	URL      string
	Response *http.Response
	Checks   []Check
	Captures map[string]any
	Err      error
	Duration time.Duration
}

// Passed reports whether the request succeeded and every check passed.
func (r *Result) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed counts the failed checks.
func (r *Result) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// Formatter renders a result.
type Formatter interface {
	FormatResult(result *Result)
	FormatError(err error)
}
