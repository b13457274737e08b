//go:build !statsview

package statsview

import (
	"io"

	"github.com/massung/chip-8/logger"
)

// Launch is a stub. Build with the statsview tag to serve statistics.
func Launch(_ io.Writer) func() {
	logger.Log("statsview", "not available in this build")
	return func() {}
}

// Available returns true if a stats server is available to launch.
func Available() bool {
	return false
}
