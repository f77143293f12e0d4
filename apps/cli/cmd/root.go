package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"pkt.systems/pslog"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "httpcase",
		Short: "Send HTTP requests and check the responses.",
		Long: `httpcase sends GET, POST, PUT and DELETE requests with query parameters,
form bodies or multipart uploads and checks the response status, redirect
location and JSON fields addressed with dotted/bracketed paths
(args.nest[key 1]).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			structured, _ := cmd.Flags().GetBool("structured")
			levelStr, _ := cmd.Flags().GetString("log-level")
			caller, _ := cmd.Flags().GetBool("log-caller")
			levelFlagSet := cmd.Flags().Changed("log-level")
			logger, err := newLogger(structured, levelStr, levelFlagSet, caller, cmd.ErrOrStderr())
			if err != nil {
				return usageError(err)
			}
			cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))
			return nil
		},
	}

	addLoggingFlags(root.PersistentFlags())
	root.PersistentFlags().String("config", getEnvString("HTTPCASE_CONFIG", ""), "Path to config file (env: HTTPCASE_CONFIG)")
	root.PersistentFlags().Bool("no-color", getEnvBool("HTTPCASE_NO_COLOR", false), "Disable colored output (env: HTTPCASE_NO_COLOR)")

	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		root.AddCommand(newRequestCmd(method))
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd())
	return root
}

// Execute runs the CLI and exits with the code carried by the returned error.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if !exitErr.reported {
			fmt.Fprintln(stderr, "Error:", exitErr.err)
		}
		return exitErr.code
	}

	// Cobra parse / usage errors
	fmt.Fprintln(stderr, "Error:", err)
	return ExitUsageError
}

func newLogger(structured bool, level string, flagSet bool, caller bool, w io.Writer) (pslog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	opts := pslog.Options{CallerKeyval: caller}
	if structured {
		opts.Mode = pslog.ModeStructured
	}
	logger := pslog.NewWithOptions(w, opts).LogLevel(pslog.InfoLevel)

	if flagSet {
		if lvl, ok := pslog.ParseLevel(level); ok {
			return logger.LogLevel(lvl), nil
		}
		return nil, fmt.Errorf("unknown level %q", level)
	}

	if lvl, ok := pslog.LevelFromEnv("LOG_LEVEL"); ok {
		return logger.LogLevel(lvl), nil
	}
	if lvl, ok := pslog.ParseLevel(level); ok {
		return logger.LogLevel(lvl), nil
	}
	return logger, nil
}

func loggerFromCmd(cmd *cobra.Command) pslog.Logger {
	if logger := pslog.LoggerFromContext(cmd.Context()); logger != nil {
		return logger
	}
	return pslog.NewWithOptions(cmd.ErrOrStderr(), pslog.Options{MinLevel: pslog.InfoLevel})
}

func addLoggingFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "warn", "Log level (trace|debug|info|warn|error)")
	flags.Bool("structured", false, "Emit structured JSON logs")
	flags.Bool("log-caller", false, "Include caller function name on each log line")
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
