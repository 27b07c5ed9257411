package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/webhookrelay/relay-go/pkg/util/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
)

func Full() string {
	return fmt.Sprintf("relayd %s (commit %s, %s %s/%s)", Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
