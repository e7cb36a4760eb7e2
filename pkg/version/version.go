// Package version exposes build metadata set at link time.
package version

//nolint:gochecknoglobals // Set with -ldflags "-X".
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the release version, e.g. "v0.3.1", or "dev".
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}

// String renders the full version line shown by --version.
func String() string {
	s := version
	if gitCommit != "" {
		s += " (" + gitCommit
		if buildDate != "" {
			s += ", " + buildDate
		}
		s += ")"
	}
	return s
}
