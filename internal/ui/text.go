package ui

import "strings"

// debug font glyphs are 6px wide
const charWidth = 6

// maxCharsForText is how many characters fit on a line starting at x.
func (a *App) maxCharsForText(x int) int {
	return textColumns(a.curW, x)
}

func textColumns(width, x int) int {
	n := (width - x) / charWidth
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) truncateText(s string, maxChars int) string {
	return truncateText(s, maxChars)
}

func truncateText(s string, maxChars int) string {
	r := []rune(s)
	if maxChars <= 0 || len(r) <= maxChars {
		return s
	}
	if maxChars <= 3 {
		return string(r[:maxChars])
	}
	return string(r[:maxChars-3]) + "..."
}

func (a *App) wrapText(s string, maxChars int) []string {
	return wrapText(s, maxChars)
}

// wrapText breaks s at spaces into lines of at most maxChars. Words longer
// than a line are split.
func wrapText(s string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > maxChars {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:maxChars]))
			w = w[maxChars:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= maxChars:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
