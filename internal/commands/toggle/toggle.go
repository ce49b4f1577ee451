// Package toggle provides the two manifest rewrite commands:
// relative-to-published and published-to-relative.
package toggle

import (
	"context"
	"fmt"

	"github.com/indaco/depflip/internal/config"
	"github.com/indaco/depflip/internal/core"
	"github.com/indaco/depflip/internal/manifest"
	"github.com/indaco/depflip/internal/printer"
	"github.com/urfave/cli/v3"
)

// Direction selects which way the dependency declaration is rewritten.
type Direction int

const (
	// DirectionPublished rewrites the local path form into the published
	// version form.
	DirectionPublished Direction = iota

	// DirectionRelative rewrites the published version form back into the
	// local path form.
	DirectionRelative
)

// RelativeToPublished returns the "relative-to-published" command.
func RelativeToPublished(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "relative-to-published",
		Usage:     "Rewrite the dependency's local path reference into its published version",
		UsageText: "depflip relative-to-published [--manifest path] [--dependency name]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runToggle(ctx, cmd, cfg, DirectionPublished)
		},
	}
}

// PublishedToRelative returns the "published-to-relative" command.
func PublishedToRelative(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "published-to-relative",
		Usage:     "Rewrite the dependency's published version reference back into its local path",
		UsageText: "depflip published-to-relative [--manifest path] [--dependency name]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runToggle(ctx, cmd, cfg, DirectionRelative)
		},
	}
}

// Options describe a single toggle invocation.
type Options struct {
	// Manifest is the path of the file to rewrite.
	Manifest string

	// Dep is the dependency declaration being toggled.
	Dep manifest.Dependency

	// Quiet suppresses the success line.
	Quiet bool
}

func runToggle(ctx context.Context, cmd *cli.Command, cfg *config.Config, dir Direction) error {
	opts := resolveOptions(cmd, cfg)
	return Run(ctx, core.NewOSFileSystem(), opts, dir)
}

// resolveOptions merges global flags with the loaded configuration.
func resolveOptions(cmd *cli.Command, cfg *config.Config) Options {
	dep := manifest.Dependency{
		Name:      cfg.Dependency.Name,
		LocalPath: cfg.Dependency.Path,
	}
	if name := cmd.String("dependency"); name != "" && name != cfg.Dependency.Name {
		// A dependency chosen on the command line uses the conventional
		// sibling path, not the one configured for the default dependency.
		dep = manifest.NewDependency(name)
	}

	return Options{
		Manifest: cmd.String("manifest"),
		Dep:      dep,
		Quiet:    cmd.Bool("quiet"),
	}
}

// Run executes one toggle: load, rewrite in memory, save. A failure at
// any step before Save leaves the file untouched.
func Run(ctx context.Context, fs core.FileSystem, opts Options, dir Direction) error {
	m, err := manifest.Load(ctx, fs, opts.Manifest)
	if err != nil {
		return err
	}

	switch dir {
	case DirectionPublished:
		err = m.ToPublished(opts.Dep)
	case DirectionRelative:
		err = m.ToRelative(opts.Dep)
	}
	if err != nil {
		return err
	}

	if err := m.Save(ctx, fs); err != nil {
		return err
	}

	if !opts.Quiet {
		printOutcome(m, opts, dir)
	}
	return nil
}

func printOutcome(m *manifest.Manifest, opts Options, dir Direction) {
	version, err := m.Version()
	if err != nil {
		// The toggle already succeeded, so the version line exists;
		// this branch is unreachable in practice.
		return
	}

	var msg string
	switch dir {
	case DirectionPublished:
		msg = fmt.Sprintf("Switched %s to published version %s", opts.Dep.Name, version)
	case DirectionRelative:
		msg = fmt.Sprintf("Switched %s to local path %s", opts.Dep.Name, opts.Dep.LocalPath)
	}
	fmt.Printf("%s %s %s\n", printer.SuccessBadge("✓"), msg, printer.Faint("("+opts.Manifest+")"))
}
