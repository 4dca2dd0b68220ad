package ui

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/apu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/canvas"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/chip8"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
)

type App struct {
	cfg    Config
	m      *emu.Machine
	logger *log.Logger

	tex     *ebiten.Image
	overlay *ebiten.Image
	fb      []byte
	curW    int
	curH    int

	userPaused bool
	fast       bool
	baseSpeed  float64
	quit       bool

	// overlay/menu
	showMenu bool
	menuMode string // "main", "rom", "keys"
	menuIdx  int
	romList  []string
	romSel   int
	romOff   int
	keysOff  int

	toastMsg   string
	toastUntil time.Time

	// audio
	audioCtx    *audio.Context
	audioPlayer *audio.Player
	tone        *apu.Tone
}

func NewApp(cfg Config, m *emu.Machine, logger *log.Logger) *App {
	cfg.Defaults()
	a := &App{
		cfg:       cfg,
		m:         m,
		logger:    logger,
		menuMode:  "main",
		baseSpeed: m.Speed(),
		curW:      chip8.ScreenWidth * cfg.Scale,
		curH:      chip8.ScreenHeight * cfg.Scale,
	}
	a.applyWindowSize()
	a.updateTitle()
	return a
}

func (a *App) Run() error {
	a.initAudio()
	defer a.closeAudio()
	if err := ebiten.RunGame(a); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func (a *App) applyWindowSize() {
	ebiten.SetWindowSize(chip8.ScreenWidth*a.cfg.Scale, chip8.ScreenHeight*a.cfg.Scale)
}

func (a *App) updateTitle() {
	title := a.cfg.Title
	if r := a.m.ROM(); r != nil {
		title = a.cfg.Title + " - [" + r.Name + "]"
	}
	ebiten.SetWindowTitle(title)
}

func (a *App) Update() error {
	if a.quit {
		return ebiten.Termination
	}

	// Toggle menu (Escape); the machine is held while it is open
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
		a.syncPause()
	}
	if a.showMenu {
		a.updateMenu()
		return nil
	}

	a.m.SetKeys(pollKeys(ebiten.IsKeyPressed))

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.userPaused = !a.userPaused
		a.syncPause()
	}

	// Fast-forward (Tab): while held, run at a multiple of the chosen speed
	if fast := ebiten.IsKeyPressed(ebiten.KeyTab); fast != a.fast {
		a.fast = fast
		a.applySpeed()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.toggleMute()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.screenshot()
	}

	// Frame-step when paused (N)
	if a.userPaused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		_ = a.m.RunSteps(1)
	}

	// faults are logged by the machine and shown in Draw
	_, _ = a.m.Update()
	return nil
}

func (a *App) syncPause() {
	a.m.SetPaused(a.userPaused || a.showMenu)
}

func (a *App) applySpeed() {
	s := a.baseSpeed
	if a.fast {
		s *= a.cfg.FastForward
	}
	a.m.SetSpeed(s)
}

func (a *App) reset() {
	if err := a.m.Reset(); err != nil {
		a.toast("Reset failed: " + err.Error())
		return
	}
	a.toast("Reset")
}

func (a *App) toggleMute() {
	a.cfg.Muted = !a.cfg.Muted
	a.SetEnabled(a.m.SoundOn())
	a.toast(map[bool]string{true: "Sound off", false: "Sound on"}[a.cfg.Muted])
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(chip8.ScreenWidth, chip8.ScreenHeight)
	}
	a.fb = a.m.Framebuffer(a.fb)
	a.tex.WritePixels(a.fb)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(a.curW)/chip8.ScreenWidth, float64(a.curH)/chip8.ScreenHeight)
	screen.DrawImage(a.tex, &op)

	if f := a.m.Fault(); f != chip8.FaultNone {
		ebitenutil.DebugPrintAt(screen, a.truncateText("FAULT: "+f.String(), a.maxCharsForText(4)), 4, 4)
		ebitenutil.DebugPrintAt(screen, "F5: Reset", 4, 18)
	} else if a.userPaused && !a.showMenu {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 4, 4)
	}

	if a.showMenu {
		a.drawOverlay(screen)
		switch a.menuMode {
		case "rom":
			a.drawRomMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
	}

	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(4)), 4, a.curH-16)
	}
}

func (a *App) drawOverlay(screen *ebiten.Image) {
	if a.overlay == nil || a.overlay.Bounds().Dx() != a.curW || a.overlay.Bounds().Dy() != a.curH {
		a.overlay = ebiten.NewImage(a.curW, a.curH)
		a.overlay.Fill(color.RGBA{A: 160})
	}
	screen.DrawImage(a.overlay, nil)
}

func (a *App) Layout(outW, outH int) (int, int) {
	a.curW = chip8.ScreenWidth * a.cfg.Scale
	a.curH = chip8.ScreenHeight * a.cfg.Scale
	return a.curW, a.curH
}

func (a *App) screenshot() {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	if err := a.saveScreenshot(name); err != nil {
		a.logger.Error("Screenshot failed", err)
		a.toast("Screenshot failed")
		return
	}
	a.toast("Saved " + name)
}

func (a *App) saveScreenshot(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := canvas.WritePNG(f, a.m.Canvas(), a.cfg.Scale); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
