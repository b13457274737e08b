package main

// void Tone(void *userdata, unsigned char *stream, int len);
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/massung/chip-8/sound"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Sample looped by the audio callback while the beeper plays.
	///
	ToneData []float32

	// next sample of ToneData to play
	tonePos int
)

/// Beeper is the audio gate playing the tone through SDL.
///
type Beeper struct {
	id      sdl.AudioDeviceID
	playing bool
}

/// Initialize an audio device for the CHIP-8 virtual machine. With no file
/// the beeper plays a square wave.
///
func InitAudio(file string) (*Beeper, error) {
	tone := sound.SquareWave()

	if file != "" {
		var err error
		if tone, err = sound.LoadTone(file); err != nil {
			return nil, err
		}
	}

	if len(tone.Data) == 0 {
		return nil, fmt.Errorf("audio: %s is empty", file)
	}

	ToneData = tone.Data
	tonePos = 0

	spec := sdl.AudioSpec{
		Freq:     int32(tone.SampleRate),
		Format:   sdl.AUDIO_F32,
		Channels: 1,
		Samples:  512,
		Callback: sdl.AudioCallback(C.Tone),
	}

	// the device starts paused
	id, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	return &Beeper{id: id}, nil
}

/// Tick implements the chip8.AudioGate interface.
///
func (b *Beeper) Tick(value uint8) {
	if on := value > 0; on != b.playing {
		b.playing = on
		sdl.PauseAudioDevice(b.id, !on)
	}
}

/// Close the audio device.
///
func (b *Beeper) Close() {
	sdl.CloseAudioDevice(b.id)
}

//export Tone
func Tone(_ unsafe.Pointer, stream *C.uchar, length C.int) {
	buf := unsafe.Slice((*float32)(unsafe.Pointer(stream)), int(length)/4)

	for i := range buf {
		buf[i] = ToneData[tonePos]
		tonePos = (tonePos + 1) % len(ToneData)
	}
}
