package onboarding

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/onboard/internal/domain"
)

// Answer is one submission for the current step. Selected carries the
// options chosen in a select step; Text carries a typed answer. When both
// are set Selected wins.
type Answer struct {
	Text     string
	Selected []string
	Other    string
}

// TextAnswer is shorthand for a typed answer.
func TextAnswer(text string) Answer { return Answer{Text: text} }

// Pick is shorthand for a selection answer.
func Pick(options ...string) Answer { return Answer{Selected: options} }

// normalize turns ans into the stored value for a step answered in mode.
// Only typed text is split on commas; selected options are taken verbatim.
func normalize(mode InputMode, ans Answer) (domain.Choice, error) {
	items := ans.Selected
	if len(items) == 0 {
		text := strings.TrimSpace(ans.Text)
		if text == "" {
			return domain.Choice{}, ErrEmptyAnswer
		}
		if mode == ModeMulti {
			items = strings.Split(text, ",")
		} else {
			items = []string{text}
		}
	}

	other := strings.TrimSpace(ans.Other)
	values := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == OthersOption {
			if other == "" {
				return domain.Choice{}, ErrOtherTextRequired
			}
			it = other
		}
		if it != "" {
			values = append(values, it)
		}
	}
	if len(values) == 0 {
		return domain.Choice{}, ErrEmptyAnswer
	}

	if mode == ModeMulti {
		return domain.List(values...), nil
	}
	if len(values) > 1 {
		return domain.Choice{}, fmt.Errorf("%w, got %d", ErrSingleChoice, len(values))
	}
	return domain.Scalar(values[0]), nil
}
