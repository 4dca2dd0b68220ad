package ui

import (
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{
		"Resume",
		"Reset",
		fmt.Sprintf("Speed: %gx  (Left/Right)", a.baseSpeed),
		fmt.Sprintf("Scale: %dx  (Left/Right)", a.cfg.Scale),
		fmt.Sprintf("Sound: %s", map[bool]string{true: "Off", false: "On"}[a.cfg.Muted]),
		"Switch ROM",
		"Keybindings",
		"Screenshot",
		"Quit",
	}
	ebitenutil.DebugPrintAt(screen, "Menu:", 10, 10)
	maxChars := a.maxCharsForText(10)
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, a.truncateText(prefix+s, maxChars), 10, 24+i*14)
	}
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, a.truncateText("Select ROM (Enter to load, Backspace/Esc to return)", a.maxCharsForText(10)), 10, 10)
	// show configured ROMs directory
	ebitenutil.DebugPrintAt(screen, a.truncateText("Dir: "+a.cfg.ROMsDir, a.maxCharsForText(10)), 10, 24)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, 40)
		return
	}
	baseY := 40
	maxRows := a.listRows(baseY)
	end := a.romOff + maxRows
	if end > len(a.romList) {
		end = len(a.romList)
	}
	maxChars := a.maxCharsForText(10) - 2 // account for "> " prefix
	for i, p := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+a.truncateText(filepath.Base(p), maxChars), 10, baseY+i*14)
	}
	// scroll indicators
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	title := "Keybindings (Up/Down to scroll, Backspace/Esc to return)"
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	baseY := cursorY + 4
	maxRows := a.listRows(baseY)
	end := a.keysOff + maxRows
	if end > len(keyHelp) {
		end = len(keyHelp)
	}
	maxChars := a.maxCharsForText(10)
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(keyHelp[i], maxChars), 10, baseY+(i-a.keysOff)*14)
	}
	// scroll indicators
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(keyHelp) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}
