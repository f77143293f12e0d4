package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httpcase/packages/capture"
	"github.com/abdul-hamid-achik/httpcase/packages/core/config"
	"github.com/abdul-hamid-achik/httpcase/packages/core/env"
	"github.com/abdul-hamid-achik/httpcase/packages/http"
	"github.com/abdul-hamid-achik/httpcase/packages/output"
	"github.com/abdul-hamid-achik/httpcase/packages/testcase"
)

type requestFlags struct {
	query   []string
	data    []string
	form    []string
	headers []string

	baseURL      string
	timeout      int
	follow       bool
	maxRedirects int
	insecure     bool
	proxy        string

	envFile string
	vars    []string

	expectStatus   int
	expectLocation string
	expectHeaders  []string
	expectJSON     []string
	expectJSONPath []string
	expectSchema   string

	captures []string
	output   string
	verbose  bool
}

func newRequestCmd(method string) *cobra.Command {
	f := &requestFlags{}
	name := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   name + " <url>",
		Short: fmt.Sprintf("Send a %s request and check the response", method),
		Long: fmt.Sprintf(`Send a %[1]s request and check the response.

Field names may use brackets to nest values (nest[key 1]=value 1). Values
and the URL may reference variables as {{name}} (from --var or --env-file)
or process environment variables as {{$NAME}}.

Examples:
  httpcase %[2]s http://localhost:8080/%[2]s -q key=value --expect-status 200
  httpcase %[2]s http://localhost:8080/%[2]s -d "nest[key 1]=value 1" --expect-json "form.nest[key 1]=value 1"
  httpcase %[2]s http://localhost:8080/%[2]s -F name=value -F upload=@./file.txt
  httpcase %[2]s {{base}}/%[2]s --var base=http://localhost:8080 --capture code=status`, method, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.query, "query", "q", nil, "Query parameter (key=value), repeatable")
	fl.StringArrayVarP(&f.data, "data", "d", nil, "Form field sent urlencoded (key=value), repeatable")
	fl.StringArrayVarP(&f.form, "form", "F", nil, "Multipart field (key=value or key=@path), repeatable; wins over --data")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "Request header (Name: value), repeatable")

	fl.StringVar(&f.baseURL, "base-url", getEnvString("HTTPCASE_BASE_URL", ""), "Prefix for URLs without a scheme (env: HTTPCASE_BASE_URL)")
	fl.IntVar(&f.timeout, "timeout", getEnvInt("HTTPCASE_TIMEOUT", 0), "Request timeout in milliseconds (env: HTTPCASE_TIMEOUT)")
	fl.BoolVarP(&f.follow, "follow", "L", false, "Follow redirects")
	fl.IntVar(&f.maxRedirects, "max-redirects", 0, "Maximum redirects to follow with --follow")
	fl.BoolVarP(&f.insecure, "insecure", "k", getEnvBool("HTTPCASE_INSECURE", false), "Skip TLS verification (env: HTTPCASE_INSECURE)")
	fl.StringVar(&f.proxy, "proxy", getEnvString("HTTPCASE_PROXY", ""), "Proxy URL (env: HTTPCASE_PROXY)")

	fl.StringVar(&f.envFile, "env-file", getEnvString("HTTPCASE_ENV_FILE", ""), "Path to .env file for variable interpolation (env: HTTPCASE_ENV_FILE)")
	fl.StringArrayVar(&f.vars, "var", nil, "Variable (name=value), repeatable")

	fl.IntVar(&f.expectStatus, "expect-status", 0, "Expected status code")
	fl.StringVar(&f.expectLocation, "expect-location", "", "Expected Location header, compared literally")
	fl.StringArrayVar(&f.expectHeaders, "expect-header", nil, "Expected header line (Name: value), repeatable")
	fl.StringArrayVar(&f.expectJSON, "expect-json", nil, "Expected JSON value (path=value), repeatable")
	fl.StringArrayVar(&f.expectJSONPath, "expect-jsonpath", nil, "Expected JSONPath value ($.expr=value), repeatable")
	fl.StringVar(&f.expectSchema, "expect-schema", "", "JSON Schema the body must match, inline or a file path")

	fl.StringArrayVar(&f.captures, "capture", nil, "Capture a value (name=status|duration|header:Name|body[:path]), repeatable")
	fl.StringVarP(&f.output, "output", "o", getEnvString("HTTPCASE_OUTPUT", "console"), "Output format: console, json (env: HTTPCASE_OUTPUT)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Print response headers and body")

	return cmd
}

func runRequest(cmd *cobra.Command, method, rawURL string, f *requestFlags) error {
	logger := loggerFromCmd(cmd)

	resolver, err := newResolver(f)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	if err := resolveFlags(resolver, f); err != nil {
		return withExitCode(ExitConfigError, err)
	}
	target, err := resolver.Resolve(rawURL)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	formatter, err := newFormatter(cmd, f.output, cfg)
	if err != nil {
		return usageError(err)
	}

	opts, err := buildOptions(f)
	if err != nil {
		return withExitCode(ExitParseError, err)
	}
	if len(f.form) > 0 && len(f.data) > 0 {
		logger.Warn("--data ignored because --form is set")
	}

	expectations, err := parseExpectations(cmd, f)
	if err != nil {
		return withExitCode(ExitParseError, err)
	}

	captures := make([]*capture.Capture, 0, len(f.captures))
	for _, def := range f.captures {
		c, err := capture.Parse(def)
		if err != nil {
			return withExitCode(ExitParseError, err)
		}
		captures = append(captures, c)
	}

	tc := testcase.New(nil, testcase.DefaultEnvironment(cfg, logger),
		testcase.WithContext(cmd.Context()),
		testcase.WithLogger(logger),
		testcase.WithBaseURL(cfg.BaseURL),
	)

	result := &output.Result{Method: method, URL: target}
	resp, err := tc.Send(method, target, opts)
	if err != nil {
		result.Err = err
		formatter.FormatResult(result)
		return &exitError{code: ExitNetworkError, err: err, reported: true}
	}
	result.Response = resp
	result.Duration = resp.Duration

	failures := evaluate(resp, expectations, result)

	if len(captures) > 0 {
		values, err := capture.ExtractAll(resp, captures)
		result.Captures = values
		if err != nil {
			result.Checks = append(result.Checks, output.Check{Name: "captures", Err: err})
			failures = multierror.Append(failures, err)
		}
	}

	formatter.FormatResult(result)

	if err := failures.ErrorOrNil(); err != nil {
		logger.Debug("request checks failed", "method", method, "url", target, "failed", result.Failed())
		return &exitError{code: ExitTestFailure, err: err, reported: true}
	}
	return nil
}

func newResolver(f *requestFlags) (*env.Resolver, error) {
	resolver := env.NewResolver()
	if f.envFile != "" {
		vars, err := env.LoadDotEnv(f.envFile)
		if err != nil {
			return nil, err
		}
		resolver.SetVariables(vars)
	}
	vars, err := env.ParseAssignments(f.vars)
	if err != nil {
		return nil, err
	}
	resolver.SetVariables(vars)
	return resolver, nil
}

func resolveFlags(resolver *env.Resolver, f *requestFlags) error {
	lists := []*[]string{&f.query, &f.data, &f.form, &f.headers, &f.expectHeaders, &f.expectJSON, &f.expectJSONPath}
	for _, list := range lists {
		resolved, err := resolver.ResolveAll(*list)
		if err != nil {
			return err
		}
		*list = resolved
	}

	singles := []*string{&f.baseURL, &f.proxy, &f.expectLocation}
	for _, s := range singles {
		resolved, err := resolver.Resolve(*s)
		if err != nil {
			return err
		}
		*s = resolved
	}
	return nil
}

func loadConfig(cmd *cobra.Command, f *requestFlags) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}

	override := &config.Config{
		BaseURL:      f.baseURL,
		Timeout:      f.timeout,
		MaxRedirects: f.maxRedirects,
		Proxy:        f.proxy,
		Headers:      headers,
	}
	if cmd.Flags().Changed("follow") {
		override.FollowRedirects = config.BoolPtr(f.follow)
	}
	if f.insecure {
		override.ValidateSSL = config.BoolPtr(false)
	}
	if f.verbose {
		override.Verbose = config.BoolPtr(true)
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		override.NoColor = config.BoolPtr(true)
	}

	return cfg.Merge(override), nil
}

func newFormatter(cmd *cobra.Command, format string, cfg *config.Config) (output.Formatter, error) {
	switch strings.ToLower(format) {
	case "console", "":
		return output.NewConsoleFormatter(
			output.WithWriter(cmd.OutOrStdout()),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		), nil
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout())), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func buildOptions(f *requestFlags) (http.Options, error) {
	var opts http.Options

	query, err := parseFields(f.query)
	if err != nil {
		return opts, fmt.Errorf("--query: %w", err)
	}
	opts.Query = query

	if len(f.form) > 0 {
		parts, err := parseParts(f.form)
		if err != nil {
			return opts, fmt.Errorf("--form: %w", err)
		}
		opts.Multipart = parts
		return opts, nil
	}

	if len(f.data) > 0 {
		data, err := parseFields(f.data)
		if err != nil {
			return opts, fmt.Errorf("--data: %w", err)
		}
		opts.Data = data
	}
	return opts, nil
}

func parseHeaders(lines []string) (map[string]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected Name: value", line)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

var errMissingEquals = errors.New("expected key=value")
