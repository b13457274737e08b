//go:build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/massung/chip-8/logger"
)

// Address the stats server listens on.
const Address = "localhost:12800"

const url = "/debug/statsview"

// Launch a new goroutine running the stats server. The returned function
// shuts it down.
func Launch(output io.Writer) func() {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go mgr.Start()

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
	logger.Logf("statsview", "serving on %s", Address)

	return mgr.Stop
}

// Available returns true if a stats server is available to launch.
func Available() bool {
	return true
}
