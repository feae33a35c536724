package cli

import (
	"context"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/session"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Where this run looks for the identity, and what it resolved to.
	Source   session.Source
	Identity domain.Identity
	Origin   session.Origin

	// Terminal dimensions
	Width  int
	Height int
}

func (s *SharedState) ctx() context.Context { return s.App.ctx() }

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
