package onboarding

import (
	"slices"
	"strings"
)

// OthersOption is appended to every option list; choosing it asks the user
// for their own text.
const OthersOption = "Others (please specify)"

// withOthers returns options with OthersOption appended once.
func withOthers(options []string) []string {
	out := make([]string, 0, len(options)+1)
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" || o == OthersOption || slices.Contains(out, o) {
			continue
		}
		out = append(out, o)
	}
	return append(out, OthersOption)
}

// Selection tracks the options chosen for the current select step. Every
// change bumps the version so pending auto-advance timers can tell whether
// the selection they were scheduled for is still current.
type Selection struct {
	mode    InputMode
	chosen  []string
	other   string
	version uint64
}

func (s *Selection) reset(mode InputMode) {
	s.mode = mode
	s.chosen = nil
	s.other = ""
	s.version++
}

// Toggle applies a click on option and reports whether the selection changed.
func (s *Selection) Toggle(option string) bool {
	if option == "" || s.mode == ModeText {
		return false
	}
	idx := slices.Index(s.chosen, option)

	if option == OthersOption {
		switch {
		case s.mode == ModeMulti && idx >= 0:
			s.chosen = slices.Delete(s.chosen, idx, idx+1)
			s.other = ""
		case s.mode == ModeMulti:
			s.chosen = append(s.chosen, option)
		default:
			if idx >= 0 && len(s.chosen) == 1 {
				return false
			}
			s.chosen = []string{option}
		}
		s.version++
		return true
	}

	if i := slices.Index(s.chosen, OthersOption); i >= 0 {
		s.chosen = slices.Delete(s.chosen, i, i+1)
		s.other = ""
	}
	switch {
	case s.mode == ModeMulti && idx >= 0:
		s.chosen = slices.DeleteFunc(s.chosen, func(v string) bool { return v == option })
	case s.mode == ModeMulti:
		s.chosen = append(s.chosen, option)
	default:
		if len(s.chosen) == 1 && s.chosen[0] == option {
			return false
		}
		s.chosen = []string{option}
	}
	s.version++
	return true
}

// SetOther records the free text that replaces OthersOption.
func (s *Selection) SetOther(text string) { s.other = text }

func (s *Selection) Chosen() []string {
	if len(s.chosen) == 0 {
		return nil
	}
	return slices.Clone(s.chosen)
}

func (s *Selection) Other() string { return s.other }

func (s *Selection) Version() uint64 { return s.version }

func (s *Selection) Has(option string) bool { return slices.Contains(s.chosen, option) }

// OthersActive reports whether the free-text input for OthersOption is shown.
func (s *Selection) OthersActive() bool { return s.Has(OthersOption) }

func (s *Selection) Empty() bool { return len(s.chosen) == 0 }

// Ready reports whether the selection can be submitted.
func (s *Selection) Ready() bool {
	if s.Empty() {
		return false
	}
	if s.OthersActive() && strings.TrimSpace(s.other) == "" {
		return false
	}
	return true
}

// AutoAdvanceEligible holds for a single-select with exactly one ordinary
// option chosen.
func (s *Selection) AutoAdvanceEligible() bool {
	return s.mode == ModeSingle && len(s.chosen) == 1 && s.chosen[0] != OthersOption
}

// Answer converts the selection into a submission.
func (s *Selection) Answer() Answer {
	return Answer{Selected: s.Chosen(), Other: s.other}
}
