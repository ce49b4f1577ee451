package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/indaco/depflip/internal/commands/doctor"
	"github.com/indaco/depflip/internal/commands/toggle"
	"github.com/indaco/depflip/internal/config"
	"github.com/indaco/depflip/internal/printer"
	"github.com/indaco/depflip/internal/tui"
	"github.com/indaco/depflip/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

var noColorFlag bool

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the depflip cli.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "depflip",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Toggle a manifest dependency between local path and published version",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "manifest",
				Aliases:     []string{"m"},
				Usage:       "Path to the manifest file",
				Value:       cfg.Manifest,
				DefaultText: config.DefaultManifest,
			},
			&urfavecli.StringFlag{
				Name:        "dependency",
				Aliases:     []string{"d"},
				Usage:       "Name of the dependency to toggle",
				Value:       cfg.Dependency.Name,
				DefaultText: config.DefaultDependency,
			},
			&urfavecli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the success line",
			},
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(noColorFlag || tui.ColorDisabled())
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			toggle.RelativeToPublished(cfg),
			toggle.PublishedToRelative(cfg),
			doctor.Run(cfg),
		},
		// Unknown and missing subcommands fall through to the root action.
		// Neither touches the manifest file.
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			if arg := cmd.Args().First(); arg != "" {
				return fmt.Errorf("unknown command: %q", arg)
			}
			return errors.New("no command specified (expected relative-to-published or published-to-relative)")
		},
	}
}
