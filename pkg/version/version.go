// Package version exposes build metadata stamped in at link time via
// -ldflags "-X github.com/schedkit/availprof/pkg/version.Version=...".
package version

var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
