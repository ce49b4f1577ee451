package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

// State describes the current surface form of the dependency declaration.
type State int

const (
	// StateMissing means no declaration line was found in either form.
	StateMissing State = iota

	// StateLocalPath means the dependency references the sibling directory.
	StateLocalPath

	// StatePublished means the dependency references a registry version.
	StatePublished
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StateLocalPath:
		return "local path"
	case StatePublished:
		return "published version"
	default:
		return "missing"
	}
}

// Inspect reports the dependency's current form without mutating anything.
// For StatePublished, the declared version is returned as well; it may
// differ from the package's own version when the file was edited by hand,
// which doctor reports as drift. Unlike the toggle operations, the
// published form is recognized with any version value.
func (m *Manifest) Inspect(dep Dependency) (State, string) {
	pathPrefix := fmt.Sprintf("%s = { path = %q", dep.Name, dep.LocalPath)
	publishedRegex := regexp.MustCompile(
		`^` + regexp.QuoteMeta(dep.Name) + ` = \{ version = "([^"]+)"`,
	)

	for _, line := range m.lines {
		if strings.HasPrefix(line, pathPrefix) {
			return StateLocalPath, ""
		}
		if match := publishedRegex.FindStringSubmatch(line); match != nil {
			return StatePublished, match[1]
		}
	}
	return StateMissing, ""
}
