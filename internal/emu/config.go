package emu

import (
	"image/color"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/canvas"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
)

// Config contains settings that affect emulation behavior.
type Config struct {
	UpdatesPerSecond uint64   // driver cycles per second; one pacer step each
	StepMultiplicity uint64   // pacer step quantum
	StepMaximum      uint64   // steps per Update before the pacer resyncs
	SnapTolerance    float64  // frame period snapping, fraction of a step
	SnapHz           []uint64 // frame rates to snap to, checked in order

	VM chip8.Config

	Background color.RGBA // canvas fill before the bitmap is drawn
	On, Off    color.RGBA // lit and unlit pixels

	Trace bool // log every executed instruction at debug level
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.UpdatesPerSecond == 0 {
		c.UpdatesPerSecond = 60
	}
	if c.StepMultiplicity == 0 {
		c.StepMultiplicity = 1
	}
	if c.StepMaximum == 0 {
		c.StepMaximum = 4
	}
	if c.SnapTolerance == 0 {
		c.SnapTolerance = 0.01
	}
	if c.SnapHz == nil {
		c.SnapHz = []uint64{60, 120, 30}
	}
	c.VM.Defaults()
	if c.Background == (color.RGBA{}) {
		c.Background = color.RGBA{R: 0xF5, G: 0x42, B: 0x72, A: 0xFF}
	}
	if c.On == (color.RGBA{}) {
		c.On = canvas.On
	}
	if c.Off == (color.RGBA{}) {
		c.Off = canvas.Off
	}
}
