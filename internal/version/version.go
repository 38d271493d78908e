// Package version holds build metadata set through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/dumpsite/internal/version.Version=v1.0.0"
package version

import "fmt"

var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "dumpsite " + Version
	}
	return fmt.Sprintf("dumpsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
