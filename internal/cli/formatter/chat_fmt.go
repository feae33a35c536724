package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	botLabel  = StylePurple.Bold(true).Render("YoLearn")
	userLabel = StyleBlue.Bold(true).Render("You")
)

// FormatBot renders a line spoken by the assistant.
func FormatBot(text string) string {
	return botLabel + Dim(" › ") + StyleFg.Render(text)
}

// FormatUser renders the user's echoed answer.
func FormatUser(text string) string {
	return userLabel + Dim(" › ") + text
}

// FormatNotice renders a warning shown between chat lines.
func FormatNotice(text string) string {
	return StyleYellow.Render("⚠ " + text)
}

// FormatError renders a blocking error.
func FormatError(text string) string {
	return StyleRed.Render("✖ " + text)
}

// FormatOption renders one option row. Multi-select rows use checkboxes,
// single-select rows use radio marks.
func FormatOption(label string, highlighted, selected, multi bool) string {
	mark := "( )"
	if multi {
		mark = "[ ]"
	}
	if selected {
		if multi {
			mark = "[x]"
		} else {
			mark = "(•)"
		}
	}
	cursor := "  "
	if highlighted {
		cursor = StyleHeader.Render("▸ ")
	}
	text := StyleFg.Render(label)
	switch {
	case selected:
		text = StyleGreen.Render(label)
	case highlighted:
		text = StyleBold.Render(label)
	}
	markStyle := StyleDim
	if selected {
		markStyle = StyleGreen
	}
	return cursor + markStyle.Render(mark) + " " + text
}

// FormatSuggestions renders autocomplete candidates on one line.
func FormatSuggestions(items []string) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, s := range items {
		if i == 0 {
			parts[i] = StyleHeader.Render(s)
			continue
		}
		parts[i] = Dim(s)
	}
	return Dim("tab: ") + strings.Join(parts, Dim(" · "))
}

// FormatHandoff renders the link the user continues at after onboarding.
func FormatHandoff(url string) string {
	if url == "" {
		return ""
	}
	link := lipgloss.NewStyle().Foreground(ColorBlue).Underline(true).Render(url)
	return Dim("Continue at ") + link
}
