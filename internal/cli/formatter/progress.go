package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderStepSegments draws one segment per data step, filled up to current.
// Nothing is drawn before the first step or once past the last.
func RenderStepSegments(current, last int, title string) string {
	if current < 1 || current > last || last < 1 {
		return ""
	}
	var b strings.Builder
	for i := 1; i <= last; i++ {
		switch {
		case i < current:
			b.WriteString(StyleGreen.Render(filledBlock))
		case i == current:
			b.WriteString(StyleHeader.Render(filledBlock))
		default:
			b.WriteString(StyleDim.Render(emptyBlock))
		}
	}
	label := fmt.Sprintf("Step %d of %d", current, last)
	if title != "" {
		label += " · " + title
	}
	return b.String() + "  " + Dim(label)
}
