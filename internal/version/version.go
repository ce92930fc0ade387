package version

import "fmt"

// Set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/docanchors/internal/version.Version=v0.3.0".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String formats the build metadata for --version.
func String() string {
	return fmt.Sprintf("docanchors %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
