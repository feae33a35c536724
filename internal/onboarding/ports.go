package onboarding

import (
	"context"
	"fmt"

	"github.com/alexanderramin/onboard/internal/domain"
)

// OptionQuery is one Option Provider request: the query kind and its
// parameters drawn from the draft.
type OptionQuery struct {
	Kind   Query
	Params map[string]domain.Choice
}

// SaveRequest is the save-complete payload.
type SaveRequest struct {
	Identity domain.Identity
	Draft    *domain.Draft
}

// Body returns the JSON body sent to the gateway.
func (r SaveRequest) Body() map[string]any {
	return r.Draft.Payload(r.Identity)
}

// OptionProvider fetches the option list for a step.
type OptionProvider interface {
	Options(ctx context.Context, q OptionQuery) ([]string, error)
}

// StatusReader reads the stored onboarding status of a user.
type StatusReader interface {
	Status(ctx context.Context, id domain.Identity) (*domain.Status, error)
}

// ProfileGateway persists and reads onboarding profiles.
type ProfileGateway interface {
	StatusReader
	SaveComplete(ctx context.Context, req SaveRequest) error
}

// Ports bundles the collaborators an engine effect is performed against.
type Ports struct {
	Options  OptionProvider
	Profiles ProfileGateway
}

// Perform executes eff and converts the result into an Outcome. It never
// returns an error directly; failures are carried in Outcome.Err so the
// engine can recover.
func (p Ports) Perform(ctx context.Context, eff Effect) Outcome {
	out := Outcome{Kind: eff.Kind}
	switch eff.Kind {
	case EffectFetch:
		if p.Options == nil {
			out.Err = fmt.Errorf("no option provider configured")
			return out
		}
		out.Options, out.Err = p.Options.Options(ctx, eff.Query)
	case EffectSave:
		if p.Profiles == nil {
			out.Err = fmt.Errorf("no profile gateway configured")
			return out
		}
		out.Err = p.Profiles.SaveComplete(ctx, eff.Save)
	}
	return out
}
