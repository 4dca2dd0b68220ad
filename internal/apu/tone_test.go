package apu

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/assert"
)

func TestTone_SilentWhenGated(t *testing.T) {
	tone := NewTone(0, 0)
	assert.Equal(t, DefaultSampleRate, tone.SampleRate())
	assert.False(t, tone.Enabled())

	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xAA
	}
	n, err := tone.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 64, n)
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d got %02x want silence", i, b)
		}
	}
}

func TestTone_StereoSine(t *testing.T) {
	tone := NewTone(8000, 1000) // 8 samples per period
	tone.SetVolume(1)
	tone.SetEnabled(true)

	p := make([]byte, 8*4)
	n, err := tone.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, len(p), n)

	peak := int16(0)
	for i := 0; i < n; i += 4 {
		l := int16(binary.LittleEndian.Uint16(p[i:]))
		r := int16(binary.LittleEndian.Uint16(p[i+2:]))
		if l != r {
			t.Fatalf("frame %d: left %d != right %d", i/4, l, r)
		}
		if l > peak {
			peak = l
		}
	}
	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(p[0:])))
	// sample 2 is the crest of the wave
	assert.True(t, peak > 32000)
	assert.True(t, int16(binary.LittleEndian.Uint16(p[6*4:])) < -32000)
}

func TestTone_ShortBuffer(t *testing.T) {
	tone := NewTone(0, 0)
	tone.SetEnabled(true)
	p := []byte{1, 2, 3}
	n, err := tone.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, byte(0), p[2])

	// trailing partial frames are left for the next call
	n, err = tone.Read(make([]byte, 10))
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestRecorder_WritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	f, err := os.Create(path)
	assert.NoError(t, err)

	tone := NewTone(8000, 0)
	rec := NewRecorder(f, tone)
	assert.NoError(t, rec.Capture(400))
	tone.SetEnabled(true)
	assert.NoError(t, rec.Capture(400))
	assert.NoError(t, rec.Capture(0))
	assert.Equal(t, 800, rec.Frames())
	assert.NoError(t, rec.Close())
	assert.NoError(t, f.Close())

	in, err := os.Open(path)
	assert.NoError(t, err)
	defer in.Close()
	dec := wav.NewDecoder(in)
	assert.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Equal(t, 8000, int(dec.SampleRate))
	assert.Equal(t, 1, int(dec.NumChans))
	assert.Equal(t, 800, len(buf.Data))

	for i := 0; i < 400; i++ {
		if buf.Data[i] != 0 {
			t.Fatalf("sample %d got %d want silence", i, buf.Data[i])
		}
	}
	loud := false
	for _, s := range buf.Data[400:] {
		if s > 1000 || s < -1000 {
			loud = true
			break
		}
	}
	assert.True(t, loud)
}

func TestTone_VolumeChangeWhilePlaying(t *testing.T) {
	tone := NewTone(8000, 1000)
	tone.SetEnabled(true)
	assert.Equal(t, defaultVolume, tone.Volume())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			tone.SetVolume(float64(i%2) / 2)
		}
		tone.SetVolume(0)
	}()
	p := make([]byte, 256)
	for i := 0; i < 100; i++ {
		_, err := tone.Read(p)
		assert.NoError(t, err)
	}
	<-done

	// zero volume is silent even with the gate open
	_, err := tone.Read(p)
	assert.NoError(t, err)
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d got %02x want silence", i, b)
		}
	}

	tone.SetVolume(3)
	assert.Equal(t, 1.0, tone.Volume())
	tone.SetVolume(-1)
	assert.Equal(t, 0.0, tone.Volume())
}

func TestPlayerBuffer(t *testing.T) {
	tests := []struct {
		ms         int
		lowLatency bool
		want       time.Duration
	}{
		{40, false, 40 * time.Millisecond},
		{40, true, 20 * time.Millisecond},
		{6, true, 5 * time.Millisecond},
		{0, false, 5 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := PlayerBuffer(tt.ms, tt.lowLatency); got != tt.want {
			t.Fatalf("PlayerBuffer(%d, %t) got %s want %s", tt.ms, tt.lowLatency, got, tt.want)
		}
	}
}
