package main

// @title           Docchat API
// @version         1.0
// @description     Upload documents and chat about their contents. Answers are grounded in excerpts retrieved from the uploaded document.

// @contact.name   Sercha OSS
// @contact.url    https://github.com/custodia-labs/sercha-docchat/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:4000
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/sercha-docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-docchat/internal/config"
)

var version = "dev"

func main() {
	if err := config.LoadDotEnv(".env", "../.env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.SetBuilder(func(ctx context.Context) (*cli.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return build(ctx, cfg, cfg.NewLogger(os.Stderr))
	})

	if err := cli.Execute(ctx, version); err != nil {
		os.Exit(1)
	}
}
