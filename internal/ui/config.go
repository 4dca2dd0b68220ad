package ui

// Config contains window/input/audio related settings.
type Config struct {
	Title   string // window title
	Scale   int    // integer upscaling factor of the 64x32 screen
	ROMsDir string // directory to browse for ROMs
	// Audio buffering
	SampleRate      int     // audio context sample rate
	AudioBufferMs   int     // player buffer in ms
	AudioLowLatency bool    // halve the player buffer
	Muted           bool    // start with the beeper silenced
	FastForward     float64 // speed multiplier while Tab is held
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "chip8emu"
	}
	if c.Scale <= 0 {
		c.Scale = 10
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
	if c.AudioBufferMs <= 0 {
		c.AudioBufferMs = 40
	}
	if c.FastForward <= 1 {
		c.FastForward = 4
	}
}
