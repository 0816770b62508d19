// Package version reports the reps build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/rnwolfe/reps/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const develVersion = "(devel)"

// Full returns "v0.3.1 (abc1234, 2024-03-15T10:00:00Z)".
func Full() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}

func Short() string {
	return Version
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
}

// fromBuildInfo fills whichever of Version, Commit and Date still hold their
// defaults, so `go install` builds report something useful. ldflags win.
func fromBuildInfo(info *debug.BuildInfo) {
	if info == nil {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != develVersion {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Value == "" {
			continue
		}
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value[:min(7, len(s.Value))]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}
