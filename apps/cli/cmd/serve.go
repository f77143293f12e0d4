package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httpcase/packages/echo"
)

func newServeCmd() *cobra.Command {
	var (
		port    int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bundled echo server",
		Long: `Start an httpbin-compatible echo server for trying requests locally.

Routes:
  GET /get, POST /post, PUT /put, PATCH /patch, DELETE /delete, ANY /anything
  ANY /status/:code
  ANY /redirect-to?url=...&status_code=...
  GET /redirect/:n, /relative-redirect/:n, /absolute-redirect/:n

Examples:
  httpcase serve
  httpcase serve --port 9090 --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := echo.NewServer(
				echo.WithPort(port),
				echo.WithVerbose(verbose),
				echo.WithLogger(loggerFromCmd(cmd)),
			)
			if err := server.Start(ctx); err != nil && ctx.Err() == nil {
				return withExitCode(ExitNetworkError, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", getEnvInt("HTTPCASE_PORT", 8080), "Port to listen on (env: HTTPCASE_PORT)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")

	return cmd
}
