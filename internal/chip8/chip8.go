// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// timers, stack, a packed monochrome bitmap and the opcode interpreter.
package chip8

import (
	"errors"
	"fmt"
)

const (
	NumRegisters = 16
	StackSize    = 16
	NumKeys      = 16

	ScreenWidth  = 64
	ScreenHeight = 32
	// ScreenBytes is the packed bitmap size: 8 byte-columns of 32 rows.
	ScreenBytes = ScreenWidth / 8 * ScreenHeight
)

var ErrROMTooLarge = errors.New("chip8: rom too large")

// Config controls the instruction and timer budget of Step.
type Config struct {
	InstructionsPerSecond float64
	TimerHz               float64
	Speed                 float64 // multiplier on the elapsed time of each Step
	Seed                  [2]uint64
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.InstructionsPerSecond <= 0 {
		c.InstructionsPerSecond = 500
	}
	if c.TimerHz <= 0 {
		c.TimerHz = 60
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.Seed == [2]uint64{} {
		c.Seed = DefaultSeed
	}
}

// VM is a single CHIP-8 program session. It is not safe for concurrent use.
type VM struct {
	V      [NumRegisters]byte
	I      uint16
	DT, ST byte
	PC     uint16
	SP     uint8

	memory [MemorySize]byte
	stack  [StackSize]uint16
	screen [ScreenBytes]byte

	keys     [NumKeys]bool
	lastKeys [NumKeys]bool

	fault    Fault
	faultErr *FaultError

	cfg      Config
	instrAcc float64
	timerAcc float64

	rng    xoroshiro
	tracer func(pc uint16, in Instruction)
}

// New creates a VM with the font at 0 and rom loaded at ProgramStart.
func New(rom []byte, cfg Config) (*VM, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	cfg.Defaults()
	vm := &VM{
		PC:  ProgramStart,
		cfg: cfg,
		rng: xoroshiro{lo: cfg.Seed[0], hi: cfg.Seed[1]},
	}
	copy(vm.memory[FontStart:], font[:])
	copy(vm.memory[ProgramStart:], rom)
	return vm, nil
}

// Config returns the budget parameters, Speed reflecting the latest SetSpeed.
func (vm *VM) Config() Config { return vm.cfg }

// Fault returns the sticky fault, FaultNone while the VM is healthy.
func (vm *VM) Fault() Fault { return vm.fault }

// Err returns the fault as an error, nil while the VM is healthy.
func (vm *VM) Err() error {
	if vm.faultErr == nil {
		return nil
	}
	return vm.faultErr
}

// Screen returns a copy of the packed bitmap, indexed byteColumn*32 + row.
// The most significant bit of each byte is the leftmost pixel.
func (vm *VM) Screen() [ScreenBytes]byte { return vm.screen }

// Pixel reports whether the logical pixel (x, y) is lit. Row 0 is the top.
func (vm *VM) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return vm.screen[(x/8)*ScreenHeight+y]>>(7-uint(x%8))&1 == 1
}

// SetKeys replaces the key-down state. Call it once per driver cycle, before
// the batch of Step calls.
func (vm *VM) SetKeys(keys [NumKeys]bool) { vm.keys = keys }

// Keys returns the current key-down state.
func (vm *VM) Keys() [NumKeys]bool { return vm.keys }

// SoundOn reports whether the sound timer is running.
func (vm *VM) SoundOn() bool { return vm.ST > 0 }

// SetSpeed changes the emulation speed multiplier. Non-positive values are ignored.
func (vm *VM) SetSpeed(speed float64) {
	if speed > 0 {
		vm.cfg.Speed = speed
	}
}

// Speed returns the emulation speed multiplier.
func (vm *VM) Speed() float64 { return vm.cfg.Speed }

// SetTracer installs a hook called with every instruction before it executes.
// Pass nil to disable tracing.
func (vm *VM) SetTracer(fn func(pc uint16, in Instruction)) { vm.tracer = fn }

// Stack returns the active return addresses, oldest first.
func (vm *VM) Stack() []uint16 {
	out := make([]uint16, vm.SP)
	copy(out, vm.stack[:vm.SP])
	return out
}
