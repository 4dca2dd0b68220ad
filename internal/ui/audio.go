package ui

import (
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/apu"
)

// initAudio creates the audio context and starts streaming the tone. The
// machine gates the tone, so the player runs for the life of the app.
func (a *App) initAudio() {
	a.tone = apu.NewTone(a.cfg.SampleRate, apu.DefaultFrequency)
	a.m.SetBeeper(a)

	a.audioCtx = audio.NewContext(a.cfg.SampleRate)
	p, err := a.audioCtx.NewPlayer(a.tone)
	if err != nil {
		a.logger.Error("Audio player creation failed", err)
		return
	}
	a.audioPlayer = p
	a.applyPlayerBufferSize()
	a.audioPlayer.Play()
}

// SetEnabled gates the tone with the sound timer unless the user muted it.
func (a *App) SetEnabled(on bool) {
	if a.tone == nil {
		return
	}
	a.tone.SetEnabled(on && !a.cfg.Muted)
}

// applyPlayerBufferSize sets the audio player's internal buffer. A short
// buffer keeps the beep in step with the sound timer.
func (a *App) applyPlayerBufferSize() {
	if a.audioPlayer == nil {
		return
	}
	a.audioPlayer.SetBufferSize(apu.PlayerBuffer(a.cfg.AudioBufferMs, a.cfg.AudioLowLatency))
}

func (a *App) closeAudio() {
	if a.audioPlayer != nil {
		_ = a.audioPlayer.Close()
		a.audioPlayer = nil
	}
}
