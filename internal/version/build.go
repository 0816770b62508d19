package version

import (
	"fmt"
	"runtime"
)

// Platform returns the toolchain and target, e.g. "go1.25.5 linux/amd64".
func Platform() string {
	return fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
