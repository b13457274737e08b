package main

import (
	"strings"

	"github.com/massung/chip-8/logger"
)

/// Show the HELP text in the log.
///
func DebugHelp() {
	for _, s := range []string{
		"virtual keys: 1-2-3-4 / Q-W-E-R / A-S-D-F / Z-X-C-V",
		"emulation keys: ESC quit, F1 help, F2 machine state",
		"single stepping (-debug): hold C to continue",
	} {
		logger.Log("help", s)
	}
}

/// Log the current machine state.
///
func DebugState() {
	for _, s := range strings.Split(strings.TrimSpace(VM.String()), "\n") {
		logger.Log("state", s)
	}
}
