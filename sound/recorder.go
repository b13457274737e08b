// Package sound records the CHIP-8 beeper to disk and loads the samples a
// front end can play in place of the square wave. Recorded audio is buffered
// in memory in its entirety and only written to disk on Close.
package sound

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/massung/chip-8/logger"
)

const (
	// SampleRate of recorded audio.
	SampleRate = 44100

	// ToneFrequency of the recorded square wave.
	ToneFrequency = 440

	// amplitude of the square wave, a quarter of the 16-bit range
	amplitude = 0x2000
)

// Recorder implements the chip8.AudioGate interface.
type Recorder struct {
	filename string

	// samples rendered for each CPU cycle
	perTick int

	// one period of the tone
	wave []float32

	mu     sync.Mutex
	phase  int
	buffer []int
}

// New is the preferred method of initialisation for the Recorder type.
// cycleRate is the number of times per second Tick will be called.
func New(filename string, cycleRate int) (*Recorder, error) {
	if cycleRate <= 0 {
		return nil, fmt.Errorf("sound: invalid cycle rate: %d", cycleRate)
	}

	perTick := SampleRate / cycleRate
	if perTick < 1 {
		perTick = 1
	}

	return &Recorder{
		filename: filename,
		perTick:  perTick,
		wave:     SquareWave().Data,
		buffer:   make([]int, 0, SampleRate),
	}, nil
}

// Tick implements the chip8.AudioGate interface.
func (r *Recorder) Tick(value uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.perTick; i++ {
		if value == 0 {
			r.buffer = append(r.buffer, 0)
			continue
		}

		r.buffer = append(r.buffer, int(r.wave[r.phase]*32768))
		r.phase = (r.phase + 1) % len(r.wave)
	}
}

// Samples returns the number of samples recorded so far.
func (r *Recorder) Samples() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.buffer)
}

// Close writes everything recorded to the WAV file.
func (r *Recorder) Close() (rerr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("sound: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("sound: %w", err)
		}
	}()

	logger.Logf("sound", "writing %d samples to %s", len(r.buffer), r.filename)

	enc := wav.NewEncoder(f, SampleRate, 16, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.buffer,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("sound: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("sound: %w", err)
	}

	return nil
}
