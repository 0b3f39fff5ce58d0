// Package version holds build metadata injected with -ldflags.
package version

import "runtime/debug"

// Build metadata. Overridden at link time, e.g.
// -X github.com/Sumatoshi-tech/seqfang/pkg/version.Version=v1.0.0.
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

// InitBinaryVersion fills unset metadata from the module build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "<unknown>" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "<unknown>" {
				Date = setting.Value
			}
		}
	}
}
