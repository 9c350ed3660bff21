package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Starts the HTTP API and blocks until interrupted.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), func(app *App) error {
		if app.Server == nil {
			return errors.New("http server not configured")
		}
		return app.Server.Start(cmd.Context())
	})
}
