// Package manifest implements the line-oriented Cargo.toml toggle engine.
//
// The manifest is never round-tripped through a TOML parser: comments,
// formatting, and key ordering must survive byte-for-byte, so the engine
// works on raw lines and rewrites exactly one of them.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/indaco/depflip/internal/core"
)

var (
	// ErrVersionNotFound is reported when no line in the manifest declares
	// the package version.
	ErrVersionNotFound = errors.New("package version not found")

	// ErrDependencyNotFound is reported when no line in the manifest matches
	// the expected dependency declaration for the requested direction.
	ErrDependencyNotFound = errors.New("dependency declaration not found")
)

// versionLineRegex matches a whole version declaration line, e.g.
// `version = "1.2.3"`. The match is anchored to the full line; inline
// occurrences elsewhere are never picked up.
var versionLineRegex = regexp.MustCompile(`^version = "(\d+\.\d+\.\d+)"$`)

// Dependency identifies the declaration being toggled.
type Dependency struct {
	// Name is the dependency key, e.g. "nucypher-core".
	Name string

	// LocalPath is the relative path used in the development-time form,
	// e.g. "../nucypher-core".
	LocalPath string
}

// NewDependency returns a Dependency whose local path is the conventional
// sibling directory "../<name>".
func NewDependency(name string) Dependency {
	return Dependency{Name: name, LocalPath: "../" + name}
}

// Manifest holds the lines of a manifest file. Each line retains its
// original terminator, so Bytes reproduces the input exactly.
type Manifest struct {
	path  string
	lines []string
}

// Load reads the manifest at path through fs and splits it into lines.
func Load(ctx context.Context, fs core.FileSystem, path string) (*Manifest, error) {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	return &Manifest{path: path, lines: splitLines(data)}, nil
}

// Path returns the file path the manifest was loaded from.
func (m *Manifest) Path() string {
	return m.path
}

// Bytes returns the manifest contents as a single byte slice.
func (m *Manifest) Bytes() []byte {
	return []byte(strings.Join(m.lines, ""))
}

// Version returns the package version declared by the first line matching
// `version = "<major>.<minor>.<patch>"`. Returns ErrVersionNotFound
// (wrapped) when no line matches.
func (m *Manifest) Version() (string, error) {
	for _, line := range m.lines {
		if match := versionLineRegex.FindStringSubmatch(trimEOL(line)); match != nil {
			return match[1], nil
		}
	}
	return "", fmt.Errorf("%w in %q", ErrVersionNotFound, m.path)
}

// VersionLineCount reports how many lines declare a package version.
// The toggle operations always act on the first one; doctor surfaces
// duplicates as a problem.
func (m *Manifest) VersionLineCount() int {
	count := 0
	for _, line := range m.lines {
		if versionLineRegex.MatchString(trimEOL(line)) {
			count++
		}
	}
	return count
}

// ToPublished rewrites the dependency's local-path declaration into a
// published-version declaration using the manifest's own version.
//
// Only the first line starting with `<name> = { path = "<localpath>"` is
// rewritten; every other byte of the manifest is left untouched. Returns
// ErrDependencyNotFound (wrapped) when no such line exists, in which case
// the manifest is unchanged.
func (m *Manifest) ToPublished(dep Dependency) error {
	version, err := m.Version()
	if err != nil {
		return err
	}

	old := fmt.Sprintf("path = %q", dep.LocalPath)
	prefix := fmt.Sprintf("%s = { %s", dep.Name, old)

	for i, line := range m.lines {
		if strings.HasPrefix(line, prefix) {
			m.lines[i] = strings.Replace(line, old, fmt.Sprintf("version = %q", version), 1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s (local path form) in %q", ErrDependencyNotFound, dep.Name, m.path)
}

// ToRelative is the inverse of ToPublished: it rewrites the dependency's
// published-version declaration back into the local-path form. The matched
// version must equal the manifest's own version.
func (m *Manifest) ToRelative(dep Dependency) error {
	version, err := m.Version()
	if err != nil {
		return err
	}

	old := fmt.Sprintf("version = %q", version)
	prefix := fmt.Sprintf("%s = { %s", dep.Name, old)

	for i, line := range m.lines {
		if strings.HasPrefix(line, prefix) {
			m.lines[i] = strings.Replace(line, old, fmt.Sprintf("path = %q", dep.LocalPath), 1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s (published version form) in %q", ErrDependencyNotFound, dep.Name, m.path)
}

// Save overwrites the manifest file with the current line set.
// Callers invoke it only after a toggle succeeded, so a failed toggle
// never mutates the file.
func (m *Manifest) Save(ctx context.Context, fs core.FileSystem) error {
	if err := fs.WriteFile(ctx, m.path, m.Bytes(), core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", m.path, err)
	}
	return nil
}

// splitLines splits data into lines, each keeping its trailing newline.
// A final line without a terminator is kept as-is.
func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i+1]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

// trimEOL strips the line terminator (LF or CRLF) for full-line matching.
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
