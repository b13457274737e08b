//go:build !statsview

package statsview

import (
	"io"
	"testing"

	"github.com/massung/chip-8/logger"
	"github.com/retroenv/retrogolib/assert"
)

func TestStub(t *testing.T) {
	logger.Clear()

	assert.Equal(t, false, Available())

	stop := Launch(io.Discard)
	stop()

	entries := logger.Entries()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "statsview", entries[0].Tag)
}
