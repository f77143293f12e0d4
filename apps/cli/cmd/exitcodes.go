package cmd

// Exit codes for httpcase CLI
const (
	// ExitSuccess indicates the request was sent and all checks passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more checks or captures failed
	ExitTestFailure = 1

	// ExitParseError indicates an invalid expectation, capture or field argument
	ExitParseError = 2

	// ExitConfigError indicates a configuration or variable error
	ExitConfigError = 3

	// ExitNetworkError indicates the request could not be built or sent
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for an error. reported is set when
// the error was already rendered by a formatter.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func usageError(err error) error {
	return withExitCode(ExitUsageError, err)
}
