// Package pacer converts irregular monotonic time samples into a whole number
// of fixed-duration simulation steps.
//
// Lag spikes are spread over a short history of deltas, the fraction lost to
// integer averaging is carried in a residual so nothing drifts, and timer
// anomalies (rewinds, stalls) are absorbed by clamping and resyncing.
package pacer

import (
	"errors"
	"fmt"
)

// historySize is the number of raw deltas averaged per Advance call. The
// residual is counted in 1/historySize tick units.
const historySize = 4

// maxSnapFrequencies is the capacity of the snapping table.
const maxSnapFrequencies = 8

var (
	ErrInvalidConfig = errors.New("pacer: invalid config")
	ErrSnapTableFull = errors.New("pacer: snap table full")
)

// Config holds the step-size parameters. They are fixed for the life of a Pacer.
type Config struct {
	TicksPerStep     uint64  // duration of one simulation step in time source ticks
	StepMultiplicity uint64  // step counts are always a multiple of this
	StepMaximum      uint64  // upper bound of steps reported by a single Advance
	SnapTolerance    float64 // max |period-delta|/TicksPerStep for frequency snapping
}

// Pacer is the fixed-timestep scheduler. It is not safe for concurrent use.
type Pacer struct {
	cfg            Config
	ticksPerSecond uint64

	time        uint64 // last processed sample, 0 means rebaseline on next Advance
	accumulator uint64 // ticks not yet converted to steps
	residual    uint64 // carried remainder of history averaging, in 1/historySize ticks

	snaps []uint64

	history      [historySize]uint64
	historyIndex int

	steps   uint64
	resyncs uint64
}

// New validates cfg and returns a Pacer primed with a steady history.
func New(cfg Config, ticksPerSecond uint64) (*Pacer, error) {
	switch {
	case cfg.TicksPerStep == 0:
		return nil, fmt.Errorf("%w: ticks per step must be > 0", ErrInvalidConfig)
	case cfg.StepMultiplicity == 0:
		return nil, fmt.Errorf("%w: step multiplicity must be > 0", ErrInvalidConfig)
	case cfg.StepMaximum <= cfg.StepMultiplicity:
		return nil, fmt.Errorf("%w: step maximum %d must exceed multiplicity %d",
			ErrInvalidConfig, cfg.StepMaximum, cfg.StepMultiplicity)
	case ticksPerSecond == 0:
		return nil, fmt.Errorf("%w: ticks per second must be > 0", ErrInvalidConfig)
	}
	p := &Pacer{
		cfg:            cfg,
		ticksPerSecond: ticksPerSecond,
		snaps:          make([]uint64, 0, maxSnapFrequencies),
	}
	p.Resync()
	return p, nil
}

// Config returns the step-size parameters.
func (p *Pacer) Config() Config { return p.cfg }

// AddSnapFrequency registers a target frame rate. Its period is rounded up to
// whole ticks. Frequencies are checked in registration order.
func (p *Pacer) AddSnapFrequency(hz uint64) error {
	if hz == 0 {
		return fmt.Errorf("%w: zero frequency", ErrInvalidConfig)
	}
	if len(p.snaps) == maxSnapFrequencies {
		return fmt.Errorf("%w: %d entries", ErrSnapTableFull, maxSnapFrequencies)
	}
	period := p.ticksPerSecond / hz
	if p.ticksPerSecond%hz != 0 {
		period++
	}
	p.snaps = append(p.snaps, period)
	return nil
}

// SnapPeriods returns the registered snapping periods in ticks.
func (p *Pacer) SnapPeriods() []uint64 {
	out := make([]uint64, len(p.snaps))
	copy(out, p.snaps)
	return out
}

// Advance consumes a time sample and returns how many steps to simulate.
func (p *Pacer) Advance(now uint64) int {
	cfg := p.cfg
	primed := cfg.TicksPerStep * cfg.StepMultiplicity

	// rebaseline: pretend exactly one multiplicity unit elapsed
	if p.time == 0 {
		if now < primed {
			now = primed
		}
		p.time = now - primed
	}

	// rewind guard
	if now < p.time {
		now = p.time
	}
	delta := now - p.time
	if limit := cfg.TicksPerStep * cfg.StepMaximum; delta > limit {
		delta = limit
	}

	delta = p.snap(delta)

	p.history[p.historyIndex] = delta
	p.historyIndex = (p.historyIndex + 1) % historySize

	var sum uint64
	for _, d := range p.history {
		sum += d
	}
	smoothed := sum / historySize

	residual := p.residual + sum%historySize
	smoothed += residual / historySize
	p.residual = residual % historySize

	p.accumulator += smoothed
	n := p.accumulator / cfg.TicksPerStep
	n = (n / cfg.StepMultiplicity) * cfg.StepMultiplicity

	if n > cfg.StepMaximum {
		// backlog is unrecoverable, drop it instead of catching up.
		// time stays at the sentinel so the next call rebaselines.
		n = cfg.StepMaximum
		p.Resync()
		p.resyncs++
	} else {
		p.accumulator -= n * cfg.TicksPerStep
		p.time = now
	}
	p.steps += n
	return int(n)
}

func (p *Pacer) snap(delta uint64) uint64 {
	for _, period := range p.snaps {
		var diff uint64
		if period > delta {
			diff = period - delta
		} else {
			diff = delta - period
		}
		if float64(diff)/float64(p.cfg.TicksPerStep) < p.cfg.SnapTolerance {
			return period
		}
	}
	return delta
}

// Resync drops all accumulated timing state. The next Advance rebaselines.
func (p *Pacer) Resync() {
	p.time = 0
	p.accumulator = 0
	p.residual = 0
	p.historyIndex = 0
	for i := range p.history {
		p.history[i] = p.cfg.TicksPerStep
	}
}

// NeedsRebaseline reports whether the next Advance starts from the sentinel.
func (p *Pacer) NeedsRebaseline() bool { return p.time == 0 }

// Steps is the total number of steps reported since creation.
func (p *Pacer) Steps() uint64 { return p.steps }

// Resyncs counts overflow resyncs triggered by Advance.
func (p *Pacer) Resyncs() uint64 { return p.resyncs }
