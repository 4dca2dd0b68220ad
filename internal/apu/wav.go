package apu

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder captures the tone into a 16-bit mono PCM WAV stream. Headless runs
// use it to make the beeper output inspectable.
type Recorder struct {
	tone   *Tone
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int
}

// NewRecorder writes WAV data for tone to w. Close must be called to finalise
// the header.
func NewRecorder(w io.WriteSeeker, tone *Tone) *Recorder {
	const wavFormatPCM = 1
	return &Recorder{
		tone: tone,
		enc:  wav.NewEncoder(w, tone.SampleRate(), 16, 1, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: tone.SampleRate()},
			SourceBitDepth: 16,
		},
	}
}

// Capture pulls n samples from the tone and appends them to the file.
func (r *Recorder) Capture(n int) error {
	if n <= 0 {
		return nil
	}
	if cap(r.buf.Data) < n {
		r.buf.Data = make([]int, n)
	}
	r.buf.Data = r.buf.Data[:n]
	for i := range r.buf.Data {
		r.buf.Data[i] = int(r.tone.next())
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	r.frames += n
	return nil
}

// Frames is the number of samples written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close flushes the encoder and patches the WAV header sizes.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}
