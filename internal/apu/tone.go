// Package apu generates the CHIP-8 beeper: a fixed-pitch sine tone gated by
// the sound timer, streamed to the audio device or recorded to WAV.
package apu

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"
)

const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440.0
	defaultVolume     = 0.25
)

// Tone is a sine oscillator. The gate and the volume are safe to change from
// the emulation goroutine while the audio goroutine reads samples; sample
// generation itself must have a single consumer.
type Tone struct {
	sampleRate int
	freq       float64
	phase      float64 // [0, 1)

	enabled atomic.Bool
	volume  atomic.Uint64 // math.Float64bits
}

// NewTone returns a silent tone. Zero arguments select the defaults.
func NewTone(sampleRate int, freq float64) *Tone {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if freq <= 0 {
		freq = DefaultFrequency
	}
	t := &Tone{sampleRate: sampleRate, freq: freq}
	t.SetVolume(defaultVolume)
	return t
}

// SetEnabled opens or closes the gate, normally with the VM's ST > 0.
func (t *Tone) SetEnabled(on bool) { t.enabled.Store(on) }

func (t *Tone) Enabled() bool { return t.enabled.Load() }

func (t *Tone) SampleRate() int { return t.sampleRate }

// SetVolume sets the peak amplitude as a fraction of full scale.
func (t *Tone) SetVolume(v float64) {
	t.volume.Store(math.Float64bits(math.Max(0, math.Min(1, v))))
}

func (t *Tone) Volume() float64 { return math.Float64frombits(t.volume.Load()) }

// next returns one mono sample. The oscillator is paused while the gate is
// closed so the tone resumes without a phase jump.
func (t *Tone) next() int16 {
	if !t.enabled.Load() {
		return 0
	}
	s := math.Sin(2*math.Pi*t.phase) * t.Volume() * math.MaxInt16
	t.phase += t.freq / float64(t.sampleRate)
	if t.phase >= 1 {
		t.phase -= math.Floor(t.phase)
	}
	return int16(s)
}

// Read implements io.Reader producing 16-bit little-endian stereo frames.
// It never blocks and never returns an error.
func (t *Tone) Read(p []byte) (int, error) {
	// a buffer smaller than one frame is filled with silence
	if len(p) < 4 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := len(p) / 4 * 4
	for i := 0; i < n; i += 4 {
		s := uint16(t.next())
		binary.LittleEndian.PutUint16(p[i:], s)
		binary.LittleEndian.PutUint16(p[i+2:], s)
	}
	return n, nil
}

// PlayerBuffer is the audio player buffer for bufferMs milliseconds, halved
// in low latency mode. It never drops below 5ms.
func PlayerBuffer(bufferMs int, lowLatency bool) time.Duration {
	if lowLatency {
		bufferMs /= 2
	}
	if bufferMs < 5 {
		bufferMs = 5
	}
	return time.Duration(bufferMs) * time.Millisecond
}
