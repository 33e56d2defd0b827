package build

import "fmt"

// Populated at link time via -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String returns the full build identity shown by the version flag.
// Format: "Version+Commit (built BuildTime)".
func String() string {
	return fmt.Sprintf("%s+%s (built %s)", Version, Commit, BuildTime)
}
