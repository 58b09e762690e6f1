package graft

// gitVersion is set by a version.go generated with cmd/gen-version.
var gitVersion = "unknown"

// Version returns the git-derived version of this build.
func Version() string {
	return gitVersion
}
