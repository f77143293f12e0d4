package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose prints response headers and body after the summary line.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(result.Method), result.URL)

	if result.Err != nil {
		fmt.Fprintf(f.writer, "  %s %s\n", red("x"), red(result.Err.Error()))
		return
	}

	resp := result.Response
	status := green(resp.Status)
	if !resp.IsSuccess() && !resp.IsRedirect() {
		status = red(resp.Status)
	}
	fmt.Fprintf(f.writer, "  %s %s\n", status, cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))
	if loc := resp.Location(); loc != "" {
		fmt.Fprintf(f.writer, "  Location: %s\n", loc)
	}

	if f.verbose {
		names := make([]string, 0, len(resp.Headers))
		for name := range resp.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(f.writer, "  %s: %s\n", name, resp.HeaderLine(name))
		}
		if len(resp.Body) > 0 {
			fmt.Fprintf(f.writer, "\n%s\n", resp.BodyString())
		}
	}

	for _, c := range result.Checks {
		if c.Passed {
			fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), c.Name)
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), c.Name)
		if c.Err != nil {
			fmt.Fprintf(f.writer, "    %s %s\n", red("→"), c.Err)
		}
	}

	if len(result.Captures) > 0 {
		fmt.Fprintf(f.writer, "  Captures:\n")
		for _, line := range SortedCaptureLines(result.Captures) {
			fmt.Fprintf(f.writer, "    %s\n", line)
		}
	}

	if len(result.Checks) > 0 {
		passed := len(result.Checks) - result.Failed()
		fmt.Fprintf(f.writer, "\nChecks: ")
		if passed > 0 {
			fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", passed)))
		}
		if result.Failed() > 0 {
			fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed())))
		}
		fmt.Fprintf(f.writer, "%d total\n", len(result.Checks))
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("httpcase"), version)
}
