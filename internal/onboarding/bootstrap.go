package onboarding

import (
	"context"

	"github.com/alexanderramin/onboard/internal/domain"
)

// EntryKind is where a session starts.
type EntryKind int

const (
	EntryFresh EntryKind = iota
	EntryResume
	EntryCompleted
)

func (k EntryKind) String() string {
	switch k {
	case EntryResume:
		return "resume"
	case EntryCompleted:
		return "completed"
	default:
		return "fresh"
	}
}

// Entry is the bootstrap decision for a session.
type Entry struct {
	Kind   EntryKind
	Status *domain.Status
	Err    error // status lookup failure that forced a fresh start
}

// Bootstrap asks r for the stored status of id and decides how the session
// begins. Any lookup failure falls back to a fresh start.
func Bootstrap(ctx context.Context, r StatusReader, id domain.Identity) Entry {
	if r == nil {
		return Entry{Kind: EntryFresh}
	}
	status, err := r.Status(ctx, id)
	if err != nil {
		return Entry{Kind: EntryFresh, Err: err}
	}
	return Classify(status)
}

// Classify maps a stored status onto an entry kind.
func Classify(status *domain.Status) Entry {
	switch {
	case status == nil:
		return Entry{Kind: EntryFresh}
	case status.Completed && status.Profile != nil:
		return Entry{Kind: EntryCompleted, Status: status}
	case status.HasData:
		return Entry{Kind: EntryResume, Status: status}
	default:
		return Entry{Kind: EntryFresh, Status: status}
	}
}
