package version

import (
	"github.com/Masterminds/semver/v3"
)

var (
	parsedVersion  *semver.Version
	parseAttempted bool
)

// resetParsedVersion clears the cached parsed version for testing.
func resetParsedVersion() {
	parsedVersion = nil
	parseAttempted = false
}

// Parsed returns the build version as a parsed semantic version, or nil
// when it does not parse (like "dev"). Computed lazily and cached.
func Parsed() *semver.Version {
	if parsedVersion != nil || parseAttempted {
		return parsedVersion
	}
	parseAttempted = true

	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil
	}
	parsedVersion = v
	return parsedVersion
}

// IsPrerelease reports whether the build version carries a pre-release
// tag. False for unparseable versions.
func IsPrerelease() bool {
	v := Parsed()
	if v == nil {
		return false
	}
	return v.Prerelease() != ""
}

// IsDevBuild reports whether this binary was built without a release
// version stamped in.
func IsDevBuild() bool {
	return Parsed() == nil
}

// Display returns the version string for CLI output, annotating dev
// and pre-release builds.
func Display() string {
	switch {
	case IsDevBuild():
		return Version + " (dev build)"
	case IsPrerelease():
		return Version + " (pre-release)"
	default:
		return Version
	}
}

// NewerThan reports whether a is a strictly newer semantic version
// than b. False when either string does not parse; callers use this to
// tell "document from a newer release" apart from plain corruption, so
// an unparseable version must not claim to be newer.
func NewerThan(a, b string) bool {
	av, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return false
	}
	return av.GreaterThan(bv)
}
