// Package doctor provides a read-only health check for the manifest.
package doctor

import (
	"context"
	"fmt"

	"github.com/indaco/depflip/internal/config"
	"github.com/indaco/depflip/internal/core"
	"github.com/indaco/depflip/internal/manifest"
	"github.com/indaco/depflip/internal/printer"
	"github.com/indaco/depflip/internal/semver"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Run returns the "doctor" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Usage:     "Check the manifest and report the dependency's current form",
		UsageText: "depflip doctor [--manifest path] [--dependency name]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dep := manifest.Dependency{
				Name:      cfg.Dependency.Name,
				LocalPath: cfg.Dependency.Path,
			}
			if name := cmd.String("dependency"); name != "" && name != cfg.Dependency.Name {
				dep = manifest.NewDependency(name)
			}

			report, err := Check(ctx, core.NewOSFileSystem(), cmd.String("manifest"), dep)
			if err != nil {
				return err
			}

			printReport(report, dep)

			if len(report.Problems) > 0 {
				return fmt.Errorf("doctor found %d problem(s)", len(report.Problems))
			}
			return nil
		},
	}
}

// Report collects doctor findings. Problems make the command fail;
// warnings are informational.
type Report struct {
	// Version is the package version extracted by line scan, if found.
	Version string

	// State is the dependency declaration's current form.
	State manifest.State

	// DeclaredVersion is the version in the published form, if that is
	// the current state.
	DeclaredVersion string

	Warnings []string
	Problems []string
}

// Check inspects the manifest without modifying it. Unlike the toggle
// operations, it also parses the file as TOML to catch syntax damage and
// drift between the line-scanned version and the structured
// package.version field.
func Check(ctx context.Context, fs core.FileSystem, path string, dep manifest.Dependency) (*Report, error) {
	if _, err := fs.Stat(ctx, path); err != nil {
		return nil, fmt.Errorf("manifest %q is not accessible: %w", path, err)
	}

	m, err := manifest.Load(ctx, fs, path)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	var doc map[string]any
	if err := toml.Unmarshal(m.Bytes(), &doc); err != nil {
		report.Problems = append(report.Problems, fmt.Sprintf("manifest is not valid TOML: %v", err))
		doc = nil
	}

	version, err := m.Version()
	if err != nil {
		report.Problems = append(report.Problems, fmt.Sprintf("no version declaration line found in %s", path))
	} else {
		report.Version = version
	}

	if n := m.VersionLineCount(); n > 1 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d version declaration lines found; toggles act on the first one", n))
	}

	// Cross-check the line scan against the structured package.version.
	if doc != nil && version != "" {
		if pkg, ok := doc["package"].(map[string]any); ok {
			if structured, ok := pkg["version"].(string); ok && structured != version {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("package.version is %q but the first version line declares %q", structured, version))
			}
		}
	}

	state, declared := m.Inspect(dep)
	report.State = state
	report.DeclaredVersion = declared

	switch state {
	case manifest.StateMissing:
		report.Problems = append(report.Problems,
			fmt.Sprintf("dependency %s not declared in either form", dep.Name))
	case manifest.StatePublished:
		if version != "" {
			want, errWant := semver.ParseVersion(version)
			got, errGot := semver.ParseVersion(declared)
			if errWant == nil && errGot == nil && want.Compare(got) != 0 {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("%s pins version %s but the package version is %s", dep.Name, declared, version))
			}
		}
	}

	return report, nil
}

func printReport(report *Report, dep manifest.Dependency) {
	printer.PrintBold("depflip doctor")

	if report.Version != "" {
		fmt.Printf("  %s package version %s\n", printer.SuccessBadge("✓"), report.Version)
	}

	switch report.State {
	case manifest.StateLocalPath:
		fmt.Printf("  %s %s: %s %s\n", printer.SuccessBadge("✓"), dep.Name,
			report.State, printer.Faint("("+dep.LocalPath+")"))
	case manifest.StatePublished:
		fmt.Printf("  %s %s: %s %s\n", printer.SuccessBadge("✓"), dep.Name,
			report.State, printer.Faint("("+report.DeclaredVersion+")"))
	}

	for _, w := range report.Warnings {
		fmt.Printf("  %s %s\n", printer.Warning("!"), w)
	}
	for _, p := range report.Problems {
		fmt.Printf("  %s %s\n", printer.ErrorBadge("✗"), p)
	}
}
