package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
)

// ErrFake is the default error injected by the fakes.
var ErrFake = errors.New("fake backend failure")

// FakeOptions is an in-memory onboarding.OptionProvider. Queries without a
// configured answer return DefaultOptions.
type FakeOptions struct {
	mu       sync.Mutex
	Answers  map[onboarding.Query][]string
	Failures map[onboarding.Query]error
	Queries  []onboarding.OptionQuery
}

// DefaultOptions is what FakeOptions returns for unconfigured queries.
var DefaultOptions = []string{"Option A", "Option B", "Option C"}

func NewFakeOptions() *FakeOptions {
	return &FakeOptions{
		Answers:  make(map[onboarding.Query][]string),
		Failures: make(map[onboarding.Query]error),
	}
}

func (f *FakeOptions) Options(_ context.Context, q onboarding.OptionQuery) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, q)
	if err := f.Failures[q.Kind]; err != nil {
		return nil, err
	}
	if opts, ok := f.Answers[q.Kind]; ok {
		return opts, nil
	}
	return DefaultOptions, nil
}

// Calls returns a copy of the recorded queries.
func (f *FakeOptions) Calls() []onboarding.OptionQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]onboarding.OptionQuery(nil), f.Queries...)
}

// FakeGateway is an in-memory onboarding.ProfileGateway that also answers
// start-onboarding calls.
type FakeGateway struct {
	mu        sync.Mutex
	Statuses  map[string]*domain.Status
	StatusErr error
	SaveErr   error
	StartErr  error
	Saves     []onboarding.SaveRequest
	Starts    []domain.Identity
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{Statuses: make(map[string]*domain.Status)}
}

func (g *FakeGateway) Status(_ context.Context, id domain.Identity) (*domain.Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.StatusErr != nil {
		return nil, g.StatusErr
	}
	if st, ok := g.Statuses[id.UserID]; ok {
		return st, nil
	}
	return &domain.Status{UserID: id.UserID, UserType: id.UserType}, nil
}

// SaveComplete records req and, on success, makes the saved profile visible
// through Status.
func (g *FakeGateway) SaveComplete(_ context.Context, req onboarding.SaveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Saves = append(g.Saves, req)
	if g.SaveErr != nil {
		return g.SaveErr
	}
	g.Statuses[req.Identity.UserID] = &domain.Status{
		UserID:    req.Identity.UserID,
		UserType:  req.Identity.UserType,
		Completed: true,
		HasData:   true,
		Profile:   ProfileFromDraft(req.Identity, req.Draft),
	}
	return nil
}

// Start records the call and fails with StartErr when set.
func (g *FakeGateway) Start(_ context.Context, id domain.Identity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Starts = append(g.Starts, id)
	return g.StartErr
}

func (g *FakeGateway) SaveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Saves)
}

// LastSave returns the most recent save request.
func (g *FakeGateway) LastSave() (onboarding.SaveRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Saves) == 0 {
		return onboarding.SaveRequest{}, false
	}
	return g.Saves[len(g.Saves)-1], true
}

// ProfileFromDraft builds the profile the backend would return for d.
func ProfileFromDraft(id domain.Identity, d *domain.Draft) *domain.Profile {
	p := &domain.Profile{
		ID:        "profile-" + id.UserID,
		UserID:    id.UserID,
		UserType:  id.UserType,
		Name:      d.Name,
		Completed: true,
		Values:    make(map[domain.Field]domain.Choice),
	}
	for _, f := range d.Fields() {
		p.Values[f] = d.Value(f)
	}
	return p
}

// PartialProfile returns a profile with only the given fields answered.
func PartialProfile(name string, values map[domain.Field]domain.Choice) *domain.Profile {
	p := &domain.Profile{Name: name, Values: make(map[domain.Field]domain.Choice)}
	for f, v := range values {
		p.Values[f] = v
	}
	return p
}
