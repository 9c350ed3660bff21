// Package cli provides the docchat command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driving"
)

// version is set at build time via Execute
var version = "dev"

// Server is the long-running HTTP surface started by `serve`
type Server interface {
	Start(ctx context.Context) error
}

// App is a wired application handed to commands
type App struct {
	Ingestion driving.IngestionService
	Chat      driving.ChatService
	Server    Server
	Close     func() error
}

// Builder wires an App from the loaded configuration
type Builder func(ctx context.Context) (*App, error)

var builder Builder

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat indexes uploaded documents into a vector store and answers
questions about them with an OpenAI-compatible chat model.`,
	SilenceUsage: true,
}

// SetBuilder installs the function commands use to wire the application
func SetBuilder(b Builder) {
	builder = b
}

// Execute runs the root command
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

// withApp builds the application, runs fn and closes it afterwards
func withApp(ctx context.Context, fn func(app *App) error) (err error) {
	if builder == nil {
		return errors.New("application not configured")
	}
	app, err := builder(ctx)
	if err != nil {
		return err
	}
	if app.Close != nil {
		defer func() {
			if cerr := app.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	return fn(app)
}
