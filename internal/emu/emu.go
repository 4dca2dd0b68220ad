// Package emu is the driver loop: it samples the clock, asks the pacer how
// many fixed steps to run, steps the VM, renders the canvas and gates the tone.
package emu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/canvas"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/pacer"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/rom"
)

var ErrNoROM = errors.New("emu: no rom loaded")

// Beeper is driven with the VM's sound timer state after every Update.
type Beeper interface {
	SetEnabled(on bool)
}

// Machine owns every piece of per-session state. It is not safe for
// concurrent use; ebiten calls Update and Draw from one goroutine.
type Machine struct {
	cfg    Config
	logger *log.Logger
	clock  pacer.TimeSource
	pacer  *pacer.Pacer
	stepDt float64

	rom    *rom.ROM
	vm     *chip8.VM
	canvas *canvas.Canvas
	beeper Beeper

	keys   [chip8.NumKeys]bool
	paused bool
	speed  float64

	steps     uint64
	faultSeen bool
}

// New creates a machine without a program. LoadROM must be called before
// Update does anything.
func New(cfg Config, clock pacer.TimeSource, logger *log.Logger) (*Machine, error) {
	cfg.Defaults()
	rate := clock.TicksPerSecond()
	if rate < cfg.UpdatesPerSecond {
		return nil, fmt.Errorf("emu: clock rate %d below update rate %d", rate, cfg.UpdatesPerSecond)
	}
	p, err := pacer.New(pacer.Config{
		TicksPerStep:     rate / cfg.UpdatesPerSecond,
		StepMultiplicity: cfg.StepMultiplicity,
		StepMaximum:      cfg.StepMaximum,
		SnapTolerance:    cfg.SnapTolerance,
	}, rate)
	if err != nil {
		return nil, err
	}
	for _, hz := range cfg.SnapHz {
		if err := p.AddSnapFrequency(hz); err != nil {
			return nil, fmt.Errorf("snap %d Hz: %w", hz, err)
		}
	}

	m := &Machine{
		cfg:    cfg,
		logger: logger,
		clock:  clock,
		pacer:  p,
		stepDt: 1 / float64(cfg.UpdatesPerSecond),
		canvas: canvas.New(chip8.ScreenWidth, chip8.ScreenHeight),
		speed:  cfg.VM.Speed,
	}
	m.canvas.Clear(cfg.Background)
	return m, nil
}

// LoadROMFromFile loads and starts the program at path.
func (m *Machine) LoadROMFromFile(path string) error {
	r, err := rom.Load(path)
	if err != nil {
		return err
	}
	return m.LoadROM(r)
}

// LoadROM starts a fresh VM session for r.
func (m *Machine) LoadROM(r *rom.ROM) error {
	vmCfg := m.cfg.VM
	vmCfg.Speed = m.speed
	vm, err := chip8.New(r.Data, vmCfg)
	if err != nil {
		return err
	}
	if m.cfg.Trace {
		vm.SetTracer(m.trace)
	}
	m.rom = r
	m.vm = vm
	m.faultSeen = false
	m.pacer.Resync()
	m.Render()
	m.setBeeper(false)
	m.logger.Info("ROM loaded",
		log.String("name", r.Name),
		log.Int("size", r.Size()),
		log.String("crc32", fmt.Sprintf("%08x", r.CRC32)))
	return nil
}

// Reset restarts the loaded program from a fresh VM. It also clears a fault.
func (m *Machine) Reset() error {
	if m.rom == nil {
		return ErrNoROM
	}
	return m.LoadROM(m.rom)
}

// ROM returns the loaded program, nil before LoadROM.
func (m *Machine) ROM() *rom.ROM { return m.rom }

// VM exposes the running VM for tools and tests. Nil before LoadROM.
func (m *Machine) VM() *chip8.VM { return m.vm }

// SetBeeper attaches the tone gate.
func (m *Machine) SetBeeper(b Beeper) { m.beeper = b }

// SetKeys records the key state for the next batch of steps. Changes are
// logged as a 16-digit 0/1 string indexed by key.
func (m *Machine) SetKeys(keys [chip8.NumKeys]bool) {
	if keys == m.keys {
		return
	}
	m.keys = keys
	m.logger.Debug("KEYBOARD", log.String("state", keyString(keys)))
}

func keyString(keys [chip8.NumKeys]bool) string {
	var sb strings.Builder
	for _, down := range keys {
		if down {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Keys returns the recorded key state.
func (m *Machine) Keys() [chip8.NumKeys]bool { return m.keys }

// SetPaused stops or resumes emulation. The pacer is resynced on resume so
// the paused time is not replayed.
func (m *Machine) SetPaused(paused bool) {
	if m.paused && !paused {
		m.pacer.Resync()
	}
	m.paused = paused
	if paused {
		m.setBeeper(false)
	}
}

func (m *Machine) Paused() bool { return m.paused }

// SetSpeed changes the emulation speed multiplier of the running and future sessions.
func (m *Machine) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	m.speed = speed
	if m.vm != nil {
		m.vm.SetSpeed(speed)
	}
}

func (m *Machine) Speed() float64 { return m.speed }

// Resync drops the pacer's timing state, e.g. after a long blocking operation.
func (m *Machine) Resync() { m.pacer.Resync() }

// Update samples the clock once and runs the steps the pacer grants. It
// returns the number of steps requested and the VM fault, if any.
func (m *Machine) Update() (int, error) {
	if m.vm == nil || m.paused {
		return 0, nil
	}
	if err := m.vm.Err(); err != nil {
		return 0, err
	}
	n := m.pacer.Advance(m.clock.Ticks())
	return n, m.RunSteps(n)
}

// RunSteps runs n fixed steps with the current keys, then renders and
// updates the beeper. Stepping stops at the first fault, which is logged once.
func (m *Machine) RunSteps(n int) error {
	if m.vm == nil {
		return ErrNoROM
	}
	m.vm.SetKeys(m.keys)
	var err error
	for i := 0; i < n; i++ {
		if err = m.vm.Step(m.stepDt); err != nil {
			break
		}
		m.steps++
	}
	if err != nil {
		if !m.faultSeen {
			m.faultSeen = true
			m.logger.Error("Chip8 fault", err)
		}
		m.setBeeper(false)
		return err
	}
	m.Render()
	m.setBeeper(m.vm.SoundOn())
	return nil
}

// Render redraws the canvas from the VM bitmap.
func (m *Machine) Render() {
	m.canvas.Clear(m.cfg.Background)
	if m.vm == nil {
		return
	}
	if err := canvas.RenderChip8(m.vm.Screen(), m.canvas, m.cfg.On, m.cfg.Off); err != nil {
		m.logger.Error("Rendering failed", err)
	}
}

// Canvas is the rendered frame, bottom row first.
func (m *Machine) Canvas() *canvas.Canvas { return m.canvas }

// Framebuffer returns the frame as top-down RGBA bytes, reusing dst.
func (m *Machine) Framebuffer(dst []byte) []byte { return m.canvas.TopDownRGBA(dst) }

// SoundOn reports whether the sound timer is running.
func (m *Machine) SoundOn() bool { return m.vm != nil && m.vm.SoundOn() }

// Fault returns the VM fault, FaultNone without a program.
func (m *Machine) Fault() chip8.Fault {
	if m.vm == nil {
		return chip8.FaultNone
	}
	return m.vm.Fault()
}

// Steps is the number of fixed steps completed without a fault.
func (m *Machine) Steps() uint64 { return m.steps }

// TicksPerStep is the clock distance of one fixed step. With a step
// multiplicity of 1, advancing a manual clock by this much between Updates
// yields exactly one step per Update.
func (m *Machine) TicksPerStep() uint64 { return m.clock.TicksPerSecond() / m.cfg.UpdatesPerSecond }

// PacerResyncs is the number of overflow resyncs so far.
func (m *Machine) PacerResyncs() uint64 { return m.pacer.Resyncs() }

func (m *Machine) setBeeper(on bool) {
	if m.beeper != nil {
		m.beeper.SetEnabled(on)
	}
}

func (m *Machine) trace(pc uint16, in chip8.Instruction) {
	m.logger.Debug("exec",
		log.String("pc", fmt.Sprintf("%03X", pc)),
		log.String("op", fmt.Sprintf("%04X", in.Raw)),
		log.String("asm", in.String()))
}
