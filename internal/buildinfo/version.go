// Package buildinfo contains build-time information embedded via ldflags
package buildinfo

// Version is the application version, set at build time via ldflags
// Example: go build -ldflags "-X github.com/YoshitsuguKoike/repairflow/internal/buildinfo.Version=v1.0.0"
var Version = "dev"

// Commit is the source revision the binary was built from, if known
var Commit = ""

// GetVersion returns the current version, with "dev" as default for development builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// String formats the version for display, e.g. "v1.0.0 (3f2c1a9)"
func String() string {
	if Commit == "" {
		return GetVersion()
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return GetVersion() + " (" + short + ")"
}
