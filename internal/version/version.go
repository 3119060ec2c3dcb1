// Package version holds the spec-dock version information.
// It has no dependencies on other internal packages and can be imported
// from anywhere.
package version

import (
	"runtime/debug"
	"strings"
)

// Unknown is reported when no version can be resolved.
const Unknown = "0.0.0+unknown"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Resolve returns the running tool's version string.
// Priority: ldflags Version > main module version from build info > Unknown.
// It is called at install time rather than cached, so the marker written to a
// project always reflects the binary doing the writing.
func Resolve() string {
	if v := strings.TrimSpace(Version); v != "" && v != "dev" {
		return strings.TrimPrefix(v, "v")
	}

	info, ok := readBuildInfo()
	if !ok || info == nil {
		return Unknown
	}
	v := strings.TrimSpace(info.Main.Version)
	if v == "" || v == "(devel)" {
		return Unknown
	}
	return strings.TrimPrefix(v, "v")
}
