package main

import (
	"context"
	"os"

	"github.com/indaco/depflip/internal/cli"
	"github.com/indaco/depflip/internal/config"
	"github.com/indaco/depflip/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}

// runCLI loads the configuration and runs the root command.
// Split out from main so tests can drive the full CLI.
func runCLI(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return cli.New(cfg).Run(context.Background(), args)
}
