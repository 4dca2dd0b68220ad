package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/apu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/canvas"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/logging"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/pacer"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/tty"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ui"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type CLIFlags struct {
	ROMPath string
	ROMsDir string
	Scale   int
	Title   string
	Speed   float64
	IPS     float64

	// audio
	Muted      bool
	LowLatency bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
	WAVOut   string
	TTY      bool

	Debug bool
	Quiet bool
	Trace bool
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.ch8)")
	flag.StringVar(&f.ROMsDir, "roms", "roms", "directory listed by the Switch ROM menu")
	flag.IntVar(&f.Scale, "scale", 10, "window scale")
	flag.StringVar(&f.Title, "title", "chip8emu", "window title")
	flag.Float64Var(&f.Speed, "speed", 1, "emulation speed multiplier")
	flag.Float64Var(&f.IPS, "ips", 500, "instructions per second at speed 1")
	flag.BoolVar(&f.Muted, "mute", false, "start with sound off")
	flag.BoolVar(&f.LowLatency, "lowlatency", false, "halve the audio buffer")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.StringVar(&f.WAVOut, "wavout", "", "record the beeper to a WAV file in headless mode")
	flag.BoolVar(&f.TTY, "tty", false, "draw frames on the terminal in real time instead of a window")

	flag.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flag.BoolVar(&f.Quiet, "q", false, "only log errors")
	flag.BoolVar(&f.Trace, "trace", false, "log every executed instruction (needs -debug)")
	flag.Parse()
	return f
}

func printBanner(f CLIFlags) {
	if !f.Quiet {
		fmt.Println("[----------------------------]")
		fmt.Println("[ chip8emu - CHIP-8 emulator ]")
		fmt.Printf("[----------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func main() {
	f := parseFlags()
	printBanner(f)
	logger := logging.New(f.Debug, f.Quiet)

	if err := run(f, logger); err != nil {
		logger.Error("Execution failed", err)
		os.Exit(1)
	}
}

func run(f CLIFlags, logger *log.Logger) error {
	cfg := emu.Config{
		VM: chip8.Config{
			InstructionsPerSecond: f.IPS,
			Speed:                 f.Speed,
		},
		Trace: f.Trace,
	}
	cfg.Defaults()

	var clock pacer.TimeSource = pacer.NewSystemClock()
	var manual *pacer.ManualClock
	if f.Headless {
		// advanced by one step per frame in runHeadless
		manual = pacer.NewManualClock(cfg.UpdatesPerSecond * 1000)
		clock = manual
	}
	m, err := emu.New(cfg, clock, logger)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}
	if f.ROMPath != "" {
		if err := m.LoadROMFromFile(f.ROMPath); err != nil {
			return err
		}
	}

	switch {
	case f.Headless:
		return runHeadless(m, manual, cfg, f, logger)
	case f.TTY:
		return runTTY(m, cfg, f)
	}

	uiCfg := ui.Config{
		Title:   f.Title,
		Scale:   f.Scale,
		ROMsDir: f.ROMsDir,
		Muted:   f.Muted,

		AudioLowLatency: f.LowLatency,
	}
	app := ui.NewApp(uiCfg, m, logger)
	return app.Run()
}

func runHeadless(m *emu.Machine, clock *pacer.ManualClock, cfg emu.Config, f CLIFlags, logger *log.Logger) error {
	if m.ROM() == nil {
		return emu.ErrNoROM
	}
	frames := f.Frames
	if frames <= 0 {
		frames = 1
	}

	var rec *apu.Recorder
	var tone *apu.Tone
	if f.WAVOut != "" {
		out, err := os.Create(f.WAVOut)
		if err != nil {
			return fmt.Errorf("create wav: %w", err)
		}
		defer func() { _ = out.Close() }()
		tone = apu.NewTone(apu.DefaultSampleRate, apu.DefaultFrequency)
		m.SetBeeper(tone)
		rec = apu.NewRecorder(out, tone)
	}
	samplesPerFrame := apu.DefaultSampleRate / int(cfg.UpdatesPerSecond)

	start := time.Now()
	step := m.TicksPerStep()
	clock.Set(step)
	var runErr error
	for i := 0; i < frames; i++ {
		if _, runErr = m.Update(); runErr != nil {
			break
		}
		clock.Add(step)
		if rec != nil {
			if err := rec.Capture(samplesPerFrame); err != nil {
				return fmt.Errorf("record wav: %w", err)
			}
		}
	}
	dur := time.Since(start)

	if rec != nil {
		if err := rec.Close(); err != nil {
			return fmt.Errorf("finish wav: %w", err)
		}
		logger.Info("Wrote WAV", log.String("path", f.WAVOut), log.Int("frames", rec.Frames()))
	}

	c := m.Canvas()
	crc := c.CRC32()
	logger.Info("Headless run finished",
		log.Int("steps", int(m.Steps())),
		log.String("elapsed", dur.Truncate(time.Millisecond).String()),
		log.String("fb_crc32", fmt.Sprintf("%08x", crc)))

	if f.PNGOut != "" {
		if err := savePNG(c, f.Scale, f.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		logger.Info("Wrote PNG", log.String("path", f.PNGOut))
	}
	if runErr != nil {
		return runErr
	}

	if f.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func savePNG(c *canvas.Canvas, scale int, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := canvas.WritePNG(out, c, scale); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// runTTY runs in real time and repaints the terminal after every update.
// Input is not read; -frames limits the run, 0 runs until a fault.
func runTTY(m *emu.Machine, cfg emu.Config, f CLIFlags) error {
	if m.ROM() == nil {
		return emu.ErrNoROM
	}
	r, err := tty.Open(os.Stdout, m.Canvas(), cfg.On)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(time.Second / time.Duration(cfg.UpdatesPerSecond))
	defer ticker.Stop()
	for frame := 0; f.Frames <= 0 || frame < f.Frames; frame++ {
		<-ticker.C
		if _, err := m.Update(); err != nil {
			return err
		}
		if err := r.Draw(m.Canvas()); err != nil {
			return err
		}
	}
	return nil
}
