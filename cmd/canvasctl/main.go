package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/canvasctl/internal/buildinfo"
	"github.com/dmitrijs2005/canvasctl/internal/client/cli"
	"github.com/dmitrijs2005/canvasctl/internal/client/config"
	"github.com/dmitrijs2005/canvasctl/internal/flagx"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	buildinfo.Print(os.Stderr)

	cfg, err := config.Load(flagx.ConfigFlag())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer app.Close()

	return app.Execute(ctx)
}
