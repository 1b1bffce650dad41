// Package version reports what dbchat build is running. Release builds set
// the variables with -ldflags; other builds fall back to the VCS stamp the
// Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

var (
	// Version is the release version
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = unknown
	// GitCommit is the git commit hash
	GitCommit = unknown
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = withVCS(info, bi.Settings)
	}
	return info
}

// withVCS fills the fields -ldflags left unset from vcs.* build settings.
func withVCS(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == unknown && s.Value != "" {
				info.GitCommit = s.Value
				if len(info.GitCommit) > 12 {
					info.GitCommit = info.GitCommit[:12]
				}
			}
		case "vcs.time":
			if info.BuildDate == unknown && s.Value != "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String returns the one-line form printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("dbchat version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns the multi-line form printed by "version --full".
func (i Info) FullString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dbchat version %s\n", i.Version)
	fmt.Fprintf(&b, "Build Date: %s\n", i.BuildDate)
	commit := i.GitCommit
	if i.Modified {
		commit += " (modified)"
	}
	fmt.Fprintf(&b, "Git Commit: %s\n", commit)
	fmt.Fprintf(&b, "Platform: %s\n", i.Platform)
	fmt.Fprintf(&b, "Go Version: %s", i.GoVersion)
	return b.String()
}
