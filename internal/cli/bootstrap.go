package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/session"
)

// Bootstrap messages, in the order a run normally sees them.
type (
	identityResolvedMsg struct {
		resolved session.Resolved
	}
	identityMissingMsg struct {
		err error // nil when nothing was supplied; set for a rejected identity
	}
	onboardingStartedMsg struct{}
	startFailedMsg       struct {
		err error
	}
	entryMsg struct {
		entry onboarding.Entry
	}
)

// resolveIdentityCmd looks up the session identity from the command line
// and the local store.
func resolveIdentityCmd(state *SharedState) tea.Cmd {
	app, src, ctx := state.App, state.Source, state.ctx()
	return func() tea.Msg {
		if app.Session == nil {
			return identityMissingMsg{}
		}
		res, err := app.Session.Resolve(ctx, src)
		if err != nil {
			if errors.Is(err, session.ErrNoIdentity) {
				return identityMissingMsg{}
			}
			app.logger().Warn("identity rejected", zap.Error(err))
			return identityMissingMsg{err: err}
		}
		return identityResolvedMsg{resolved: res}
	}
}

// rememberIdentityCmd persists a manually entered identity.
func rememberIdentityCmd(state *SharedState, id domain.Identity) tea.Cmd {
	app, ctx := state.App, state.ctx()
	return func() tea.Msg {
		if app.Session != nil {
			if err := app.Session.Remember(ctx, id); err != nil {
				app.logger().Warn("remember identity", zap.Error(err))
			}
		}
		return identityResolvedMsg{resolved: session.Resolved{Identity: id, Origin: session.OriginManual}}
	}
}

// startOnboardingCmd registers the run with the backend.
func startOnboardingCmd(state *SharedState, id domain.Identity) tea.Cmd {
	app, ctx := state.App, state.ctx()
	return func() tea.Msg {
		if err := app.Starter.Start(ctx, id); err != nil {
			app.logger().Warn("start onboarding failed", zap.String("user_id", id.UserID), zap.Error(err))
			return startFailedMsg{err: err}
		}
		return onboardingStartedMsg{}
	}
}

// statusCmd reads the stored status and classifies it into an entry.
func statusCmd(state *SharedState, id domain.Identity) tea.Cmd {
	app, ctx := state.App, state.ctx()
	return func() tea.Msg {
		entry := bootstrapEntry(ctx, app, id)
		return entryMsg{entry: entry}
	}
}

func bootstrapEntry(ctx context.Context, app *App, id domain.Identity) onboarding.Entry {
	if app.Profiles == nil {
		return onboarding.Entry{Kind: onboarding.EntryFresh}
	}
	entry := onboarding.Bootstrap(ctx, app.Profiles, id)
	if entry.Err != nil {
		app.logger().Warn("status check failed, starting fresh", zap.String("user_id", id.UserID), zap.Error(entry.Err))
	} else {
		app.logger().Info("status checked", zap.String("user_id", id.UserID), zap.Stringer("entry", entry.Kind))
	}
	return entry
}
