// Package misc keeps program identification helpers in a single leaf package
// so both config and cmd can use them without import cycles.
package misc

import (
	"runtime/debug"
)

const appName = "mdc"

// set by linker during official builds, see Taskfile
var appVersion string

// GetAppName returns short program name used for temporary files, logs and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	if len(appVersion) > 0 {
		return appVersion
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "unknown"
}

// GetGitHash returns VCS revision recorded in the build info.
func GetGitHash() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
