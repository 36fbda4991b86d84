package app

import (
	"fmt"
	"runtime"
)

// Build information, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func versionTemplate() string {
	return fmt.Sprintf("hashfinder {{.Version}} (commit %s, built %s, %s %s/%s)\n",
		Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
