package main

import (
	"github.com/massung/chip-8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// RefreshScreen draws a copy of the CHIP-8 display, each pixel scale
/// window pixels square, and presents it.
///
func RefreshScreen(scale int32) {
	buf := VM.Display().Snapshot()

	// the background color for the screen
	Renderer.SetDrawColor(143, 145, 133, 255)
	Renderer.Clear()

	// set the pixel color
	Renderer.SetDrawColor(17, 29, 43, 255)

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if buf.On(x, y) {
				Renderer.FillRect(&sdl.Rect{
					X: int32(x) * scale,
					Y: int32(y) * scale,
					W: scale,
					H: scale,
				})
			}
		}
	}

	Renderer.Present()
}
