package sound

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/assert"
)

func TestRecorder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "beep.wav")

	r, err := New(file, 700)
	assert.NoError(t, err)

	// one silent cycle, then two of tone
	r.Tick(0)
	r.Tick(3)
	r.Tick(2)

	perTick := SampleRate / 700
	assert.Equal(t, 3*perTick, r.Samples())
	assert.NoError(t, r.Close())

	f, err := os.Open(file)
	assert.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	assert.Equal(t, true, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Equal(t, uint32(SampleRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, 3*perTick, len(buf.Data))

	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 0, buf.Data[perTick-1])
	assert.Equal(t, amplitude, buf.Data[perTick])
}

func TestRecorderInvalidRate(t *testing.T) {
	_, err := New("unused.wav", 0)
	assert.Equal(t, true, err != nil)
}

func TestLoadTone(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tone.wav")

	r, err := New(file, 100)
	assert.NoError(t, err)
	r.Tick(1)
	assert.NoError(t, r.Close())

	tone, err := LoadTone(file)
	assert.NoError(t, err)
	assert.Equal(t, SampleRate, tone.SampleRate)
	assert.Equal(t, SampleRate/100, len(tone.Data))
	assert.Equal(t, float32(0.25), tone.Data[0])
	assert.Equal(t, float32(-0.25), tone.Data[SampleRate/ToneFrequency/2])
}

func TestLoadToneUnsupported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tone.ogg")
	assert.NoError(t, os.WriteFile(file, []byte("OggS"), 0o644))

	_, err := LoadTone(file)
	assert.Equal(t, true, errors.Is(err, ErrUnsupportedFormat))
}

func TestSquareWave(t *testing.T) {
	w := SquareWave()

	half := SampleRate / ToneFrequency / 2
	assert.Equal(t, 2*half, len(w.Data))
	assert.Equal(t, float32(0.25), w.Data[0])
	assert.Equal(t, float32(-0.25), w.Data[half])
	assert.Equal(t, true, w.Duration() > 0)
}
