package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLoadBar renders a department-week load against its budget, like
// [██████████▒▒] 120%. Unlike a progress bar the fraction can exceed one;
// the overflow past the budget mark renders in red.
func RenderLoadBar(load, budget float64, width int) string {
	if width < 4 {
		width = 4
	}
	if budget <= 0 {
		return Dim(strings.Repeat(emptyBlock, width))
	}

	frac := load / budget
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var bar string
	switch {
	case frac > 1:
		// Everything up to the budget mark in yellow, the excess in red.
		over := int((frac - 1) / frac * float64(width))
		if over < 1 {
			over = 1
		}
		base := width - over
		bar = StyleYellow.Render(strings.Repeat(filledBlock, base)) +
			StyleRed.Render(strings.Repeat(filledBlock, over))
	case frac >= 0.8:
		bar = StyleYellow.Render(strings.Repeat(filledBlock, filled)) +
			Dim(strings.Repeat(emptyBlock, width-filled))
	default:
		bar = StyleGreen.Render(strings.Repeat(filledBlock, filled)) +
			Dim(strings.Repeat(emptyBlock, width-filled))
	}

	return fmt.Sprintf("[%s] %3.0f%%", bar, frac*100)
}
