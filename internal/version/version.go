// Package version exposes the build version of the depflip binary.
package version

// version is set at build time via -ldflags "-X ...version.version=".
var version = "0.1.0"

// GetVersion returns the current build version string.
func GetVersion() string {
	return version
}
