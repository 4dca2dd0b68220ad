package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"
)

// main menu rows, in display order
const (
	menuResume = iota
	menuReset
	menuSpeed
	menuScale
	menuSound
	menuSwitchROM
	menuKeys
	menuScreenshot
	menuQuit
	menuItems
)

var speedSteps = []float64{0.25, 0.5, 1, 2, 4, 8}

func (a *App) updateMenu() {
	switch a.menuMode {
	case "rom":
		a.updateRomMenu()
	case "keys":
		a.updateKeysMenu()
	default:
		a.updateMainMenu()
	}
}

func (a *App) closeMenu() {
	a.showMenu = false
	a.menuMode = "main"
	a.syncPause()
}

func (a *App) updateMainMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < menuItems-1 {
		a.menuIdx++
	}
	left := inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	right := inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	enter := inpututil.IsKeyJustPressed(ebiten.KeyEnter)

	switch a.menuIdx {
	case menuResume:
		if enter {
			a.closeMenu()
		}
	case menuReset:
		if enter {
			a.reset()
			a.closeMenu()
		}
	case menuSpeed:
		if left || right {
			a.baseSpeed = stepSpeed(a.baseSpeed, right)
			a.applySpeed()
			a.toast(fmt.Sprintf("Speed %gx", a.baseSpeed))
		}
	case menuScale:
		if left && a.cfg.Scale > 1 {
			a.cfg.Scale--
			a.applyWindowSize()
		}
		if right && a.cfg.Scale < 20 {
			a.cfg.Scale++
			a.applyWindowSize()
		}
	case menuSound:
		if left || right || enter {
			a.toggleMute()
		}
	case menuSwitchROM:
		if enter {
			a.romList = a.findROMs()
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		}
	case menuKeys:
		if enter {
			a.menuMode = "keys"
			a.keysOff = 0
		}
	case menuScreenshot:
		if enter {
			a.screenshot()
		}
	case menuQuit:
		if enter {
			a.quit = true
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.closeMenu()
	}
}

// stepSpeed moves to the next preset speed above or below cur.
func stepSpeed(cur float64, up bool) float64 {
	if up {
		for _, s := range speedSteps {
			if s > cur {
				return s
			}
		}
		return speedSteps[len(speedSteps)-1]
	}
	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < cur {
			return speedSteps[i]
		}
	}
	return speedSteps[0]
}

func (a *App) updateRomMenu() {
	back := inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	n := len(a.romList)
	if n == 0 {
		if back || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.menuMode = "main"
		}
		return
	}
	// compute window to maintain selection visibility
	maxRows := a.listRows(40)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+maxRows {
		a.romOff = a.romSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadROMFromFile(path); err != nil {
			a.logger.Error("Loading ROM failed", err, log.String("path", path))
			a.toast("ROM load failed: " + err.Error())
			a.menuMode = "main"
			return
		}
		a.toast("Loaded ROM: " + filepath.Base(path))
		a.updateTitle()
		a.closeMenu()
		return
	}
	if back {
		a.menuMode = "main"
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.keysOff < len(keyHelp)-1 {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

// findROMs lists the .ch8 files in the configured ROM directory.
func (a *App) findROMs() []string {
	return findROMs(a.cfg.ROMsDir)
}

func findROMs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".ch8") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out
}

// listRows is the number of 14px rows that fit below baseY.
func (a *App) listRows(baseY int) int {
	rows := (a.curH - baseY) / 14
	if rows < 1 {
		rows = 1
	}
	return rows
}
