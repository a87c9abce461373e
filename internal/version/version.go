// Package version holds build identification stamped in via -ldflags.
package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the build identification for -version output.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
