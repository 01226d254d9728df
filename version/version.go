// Package version holds build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/TFMV/tableio/version.Version=1.2.0"
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildDate = "2025-02-20"
	Commit    = "dev"
)

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("tableio %s (commit %s, built %s)", Version, Commit, BuildDate)
}
