package chip8

import (
	"sync"
	"time"
)

/// TimerRate is the frequency (Hz) at which timers count down.
///
const TimerRate = 60

/// tickerFunc starts a periodic clock and returns its channel and a function
/// that stops it.
///
type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

/// Timer is an 8-bit register that counts down to zero at TimerRate on its
/// own, independent of how fast the CPU runs. At most one countdown is active
/// per timer: setting a new value retires the previous countdown.
///
type Timer struct {
	mu    sync.Mutex
	value uint8

	// stop is closed to retire the active countdown, nil when idle.
	stop chan struct{}

	ticker tickerFunc
}

/// NewTimer returns an idle timer at zero.
///
func NewTimer() *Timer {
	return &Timer{ticker: newTicker}
}

/// Get returns the current value of the timer. It never blocks on the
/// countdown.
///
func (t *Timer) Get() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.value
}

/// Set installs value and starts counting down from it.
///
func (t *Timer) Set(value uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.retire()
	t.value = value

	if value == 0 {
		return
	}

	stop := make(chan struct{})
	t.stop = stop

	tick, release := t.ticker(time.Second / TimerRate)
	go t.countdown(stop, tick, release)
}

/// Stop halts any active countdown, leaving the value where it is.
///
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.retire()
}

/// retire stops the active countdown. Must be called with mu held.
///
func (t *Timer) retire() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) countdown(stop chan struct{}, tick <-chan time.Time, release func()) {
	defer release()

	for {
		select {
		case <-stop:
			return
		case <-tick:
		}

		t.mu.Lock()

		// a Set may have retired this countdown while waiting for the lock
		select {
		case <-stop:
			t.mu.Unlock()
			return
		default:
		}

		t.value--
		done := t.value == 0
		if done {
			t.stop = nil
		}

		t.mu.Unlock()

		if done {
			return
		}
	}
}
