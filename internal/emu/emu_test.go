package emu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/logging"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/pacer"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/rom"
)

func quietLogger() *log.Logger { return logging.New(false, true) }

type fakeBeeper struct {
	on    bool
	calls int
}

func (b *fakeBeeper) SetEnabled(on bool) {
	b.on = on
	b.calls++
}

// newTestMachine runs at 64 updates per second on a 6400 Hz manual clock, so
// one step is 100 ticks and executes exactly 10 instructions.
func newTestMachine(t *testing.T, code []byte) (*Machine, *pacer.ManualClock) {
	t.Helper()
	clock := pacer.NewManualClock(6400)
	clock.Set(10_000)
	m, err := New(Config{
		UpdatesPerSecond: 64,
		VM:               chip8.Config{InstructionsPerSecond: 640},
	}, clock, quietLogger())
	assert.NoError(t, err)
	r, err := rom.Parse("test", code)
	assert.NoError(t, err)
	assert.NoError(t, m.LoadROM(r))
	return m, clock
}

func TestMachine_UpdateStepsAndRenders(t *testing.T) {
	// LD V0,0; LD F,V0; DRW V0,V0,5; JP $206
	m, clock := newTestMachine(t, []byte{0x60, 0x00, 0xF0, 0x29, 0xD0, 0x05, 0x12, 0x06})

	n, err := m.Update()
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(1), m.Steps())

	c := m.Canvas()
	top := c.Height() - 1
	assert.Equal(t, m.cfg.On, c.At(0, top))
	assert.Equal(t, m.cfg.On, c.At(3, top))
	assert.Equal(t, m.cfg.Off, c.At(4, top))
	assert.Equal(t, m.cfg.Off, c.At(0, 0))
	assert.Equal(t, chip8.ScreenWidth*chip8.ScreenHeight*4, len(m.Framebuffer(nil)))

	for i := 0; i < 10; i++ {
		clock.Add(100)
		n, err = m.Update()
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	assert.Equal(t, uint64(11), m.Steps())
	assert.Equal(t, uint64(0), m.PacerResyncs())
}

func TestMachine_ManualClockOneStepPerUpdate(t *testing.T) {
	m, clock := newTestMachine(t, []byte{0x12, 0x00})
	assert.Equal(t, uint64(100), m.TicksPerStep())

	clock.Set(m.TicksPerStep())
	for i := 0; i < 50; i++ {
		n, err := m.Update()
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		clock.Add(m.TicksPerStep())
	}
	assert.Equal(t, uint64(50), m.Steps())
	assert.Equal(t, uint64(0), m.PacerResyncs())
}

func TestMachine_StopsAtFault(t *testing.T) {
	m, clock := newTestMachine(t, []byte{0x60, 0x01, 0x00, 0x00})

	_, err := m.Update()
	assert.True(t, errors.Is(err, &chip8.FaultError{Fault: chip8.FaultUnknownInstruction}))
	assert.Equal(t, chip8.FaultUnknownInstruction, m.Fault())
	assert.Equal(t, uint64(0), m.Steps())

	clock.Add(100)
	n, err2 := m.Update()
	assert.Equal(t, 0, n)
	assert.True(t, err2 == err)

	assert.NoError(t, m.Reset())
	assert.Equal(t, chip8.FaultNone, m.Fault())
	assert.Equal(t, byte(0), m.VM().V[0])
}

func TestMachine_KeysHeldForBatch(t *testing.T) {
	// LD V3,K; JP $202
	m, clock := newTestMachine(t, []byte{0xF3, 0x0A, 0x12, 0x02})

	var keys [chip8.NumKeys]bool
	keys[7] = true
	m.SetKeys(keys)
	assert.Equal(t, keys, m.Keys())
	_, err := m.Update()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x200), m.VM().PC)

	m.SetKeys([chip8.NumKeys]bool{})
	clock.Add(100)
	_, err = m.Update()
	assert.NoError(t, err)
	assert.Equal(t, byte(7), m.VM().V[3])
	assert.Equal(t, uint16(0x202), m.VM().PC)
}

func TestMachine_BeeperFollowsSoundTimer(t *testing.T) {
	// LD V0,10; LD ST,V0; JP $204
	m, _ := newTestMachine(t, []byte{0x60, 0x0A, 0xF0, 0x18, 0x12, 0x04})
	b := &fakeBeeper{}
	m.SetBeeper(b)

	_, err := m.Update()
	assert.NoError(t, err)
	assert.True(t, m.SoundOn())
	assert.True(t, b.on)

	m.SetPaused(true)
	assert.False(t, b.on)
}

func TestMachine_PauseResyncsOnResume(t *testing.T) {
	m, clock := newTestMachine(t, []byte{0x12, 0x00})
	_, err := m.Update()
	assert.NoError(t, err)

	m.SetPaused(true)
	assert.True(t, m.Paused())
	clock.Add(100)
	n, err := m.Update()
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	// a long pause must not be replayed as a burst of steps
	clock.Add(1_000_000)
	m.SetPaused(false)
	n, err = m.Update()
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(0), m.PacerResyncs())
}

func TestMachine_Speed(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0x12, 0x00})
	m.SetSpeed(2)
	m.SetSpeed(0)
	assert.Equal(t, 2.0, m.Speed())
	assert.Equal(t, 2.0, m.VM().Speed())

	assert.NoError(t, m.Reset())
	assert.Equal(t, 2.0, m.VM().Speed())
}

func TestMachine_NoROM(t *testing.T) {
	m, err := New(Config{}, pacer.NewManualClock(6000), quietLogger())
	assert.NoError(t, err)

	n, err := m.Update()
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, errors.Is(m.RunSteps(1), ErrNoROM))
	assert.True(t, errors.Is(m.Reset(), ErrNoROM))
	assert.Equal(t, chip8.FaultNone, m.Fault())
	assert.False(t, m.SoundOn())
	assert.Equal(t, m.cfg.Background, m.Canvas().At(0, 0))
}

func TestNew_ClockTooSlow(t *testing.T) {
	_, err := New(Config{}, pacer.NewManualClock(10), quietLogger())
	assert.Error(t, err, "emu: clock rate 10 below update rate 60")
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	assert.Equal(t, uint64(60), cfg.UpdatesPerSecond)
	assert.Equal(t, uint64(4), cfg.StepMaximum)
	assert.Equal(t, 3, len(cfg.SnapHz))
	assert.Equal(t, byte(0xF5), cfg.Background.R)
	assert.Equal(t, 500.0, cfg.VM.InstructionsPerSecond)
}

func TestKeyString(t *testing.T) {
	var keys [chip8.NumKeys]bool
	keys[1], keys[15] = true, true
	assert.Equal(t, "0100000000000001", keyString(keys))
}
