package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/massung/chip-8/logger"
)

// ErrUnsupportedFormat is returned by LoadTone for files that are neither WAV
// nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Tone is a mono sample, normalised to the range -1 to 1.
type Tone struct {
	Data       []float32
	SampleRate int
}

// Duration of the sample.
func (t *Tone) Duration() time.Duration {
	if t.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(t.Data)) * time.Second / time.Duration(t.SampleRate)
}

// SquareWave returns one period of the square wave at ToneFrequency.
func SquareWave() *Tone {
	half := SampleRate / ToneFrequency / 2

	t := &Tone{
		Data:       make([]float32, 2*half),
		SampleRate: SampleRate,
	}

	for i := range t.Data {
		if i < half {
			t.Data[i] = amplitude / 32768.0
		} else {
			t.Data[i] = -amplitude / 32768.0
		}
	}

	return t
}

// LoadTone decodes a .wav or .mp3 file. Only the first channel of stereo
// files is kept.
func LoadTone(filename string) (*Tone, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("sound: %w", err)
	}
	defer f.Close()

	var t *Tone

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		t, err = decodeWAV(f)
	case ".mp3":
		t, err = decodeMP3(f)
	default:
		return nil, fmt.Errorf("sound: %s: %w", filename, ErrUnsupportedFormat)
	}

	if err != nil {
		return nil, err
	}

	logger.Logf("sound", "loaded %s: %d Hz, %.02fs", filename, t.SampleRate, t.Duration().Seconds())

	return t, nil
}

func decodeWAV(r io.ReadSeeker) (*Tone, error) {
	dec := wav.NewDecoder(r)
	if dec == nil {
		return nil, fmt.Errorf("sound: wav: error decoding")
	}

	if !dec.IsValidFile() {
		return nil, fmt.Errorf("sound: wav: not a valid wav file")
	}

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("sound: wav: %w", err)
	}
	// already normalised to the range -1 to 1
	floatBuf := buf.AsFloat32Buffer()

	chans := int(dec.NumChans)
	if chans < 1 {
		chans = 1
	}

	// copy first channel only of data stream
	t := &Tone{
		Data:       make([]float32, 0, len(floatBuf.Data)/chans),
		SampleRate: int(dec.SampleRate),
	}
	for i := 0; i < len(floatBuf.Data); i += chans {
		t.Data = append(t.Data, floatBuf.Data[i])
	}

	return t, nil
}

func decodeMP3(r io.Reader) (*Tone, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("sound: mp3: %w", err)
	}

	// always 16-bit little endian stereo, so 4 bytes per sample
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("sound: mp3: %w", err)
	}

	t := &Tone{
		Data:       make([]float32, 0, len(pcm)/4),
		SampleRate: dec.SampleRate(),
	}

	// left channel only
	for i := 0; i+3 < len(pcm); i += 4 {
		v := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		t.Data = append(t.Data, float32(v)/32768)
	}

	return t, nil
}
