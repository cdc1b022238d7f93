package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X gemini_chat/pkg/version.Version=..." at build time.
var (
	Version = "dev"
	Commit  = "none"
)

const appName = "gemini_chat"

// Summary returns "<version> (<short commit>)", or just the version when the
// commit is unknown.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit != "" && Commit != "none" {
		short := Commit
		if len(short) > 7 {
			short = short[:7]
		}
		return fmt.Sprintf("%s (%s)", v, short)
	}
	return v
}

// Banner is the one-line build description shown at startup.
func Banner() string {
	return fmt.Sprintf("%s %s, %s, %s/%s", appName, Summary(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
