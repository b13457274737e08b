package chip8

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/massung/chip-8/logger"
)

/// DefaultRate is the number of instructions executed per second.
///
const DefaultRate = 700

/// Runner drives a CPU: it samples the sound timer, steps the CPU and then
/// waits out the rest of the cycle. It never waits on the front end.
///
type Runner struct {
	CPU *CPU

	// Audio is ticked with the sound timer every cycle. May be nil.
	Audio AudioGate

	// Rate is the instructions per second, DefaultRate if zero.
	Rate int

	// Debug enables single stepping. After each instruction the state is
	// written to Trace and the runner waits for ContinueKey.
	Debug bool

	// Trace receives single step output. May be nil.
	Trace io.Writer
}

/// Run executes until ctx is done or the CPU faults. The returned error is
/// either a *Fault or ctx.Err().
///
func (r *Runner) Run(ctx context.Context) error {
	rate := r.Rate
	if rate <= 0 {
		rate = DefaultRate
	}

	period := time.Second / time.Duration(rate)

	clock := time.NewTicker(period)
	defer clock.Stop()

	logger.Logf("runner", "running at %d Hz", rate)

	for {
		if r.Audio != nil {
			r.Audio.Tick(r.CPU.SoundTimer())
		}

		pc := r.CPU.PC

		if _, err := r.CPU.Step(); err != nil {
			logger.Logf("runner", "halted: %v", err)
			return err
		}

		if r.Debug {
			r.trace(pc)

			if err := r.waitContinue(ctx, period*10); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.C:
		}
	}
}

/// trace writes the instruction at pc and the machine state.
///
func (r *Runner) trace(pc uint16) {
	if r.Trace == nil {
		return
	}

	fmt.Fprintf(r.Trace, "%s\n", r.CPU.Memory.Disassemble(pc))
	fmt.Fprint(r.Trace, r.CPU)
	fmt.Fprintf(r.Trace, "Press C to continue.\n")
}

/// waitContinue polls the keypad until ContinueKey is held.
///
func (r *Runner) waitContinue(ctx context.Context, poll time.Duration) error {
	for !Pressed(r.CPU.Keypad().State(), ContinueKey) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}

	return nil
}
