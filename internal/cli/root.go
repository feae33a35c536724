package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/config"
	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/repository"
	"github.com/alexanderramin/onboard/internal/session"
)

// Starter tells the backend that onboarding begins for an identity handed
// to this run.
type Starter interface {
	Start(ctx context.Context, id domain.Identity) error
}

// StartFunc adapts a function to Starter.
type StartFunc func(ctx context.Context, id domain.Identity) error

func (f StartFunc) Start(ctx context.Context, id domain.Identity) error { return f(ctx, id) }

// App holds the collaborators used by CLI commands and the TUI.
type App struct {
	Options     onboarding.OptionProvider
	Profiles    onboarding.ProfileGateway
	Starter     Starter // optional
	Session     *session.Store
	Completions repository.CompletionRepo // optional
	Observer    onboarding.Observer
	Logger      *zap.Logger

	// AutoAdvance is the delay before a lone single-select choice submits
	// itself. Zero disables auto-advance.
	AutoAdvance time.Duration

	// Handoff returns where the user continues after a saved profile.
	Handoff func(domain.UserType) string

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// ConfigPath is where "config init" writes. Empty means the default
	// location.
	ConfigPath string

	Context context.Context
	Now     func() time.Time
	NewID   func() string
}

var errNotInteractive = errors.New("onboard needs an interactive terminal; use 'onboard replay' for scripted runs")

func (a *App) ports() onboarding.Ports {
	return onboarding.Ports{Options: a.Options, Profiles: a.Profiles}
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) observer() onboarding.Observer {
	if a.Observer == nil {
		return onboarding.NoopObserver{}
	}
	return a.Observer
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

func (a *App) configPath() string {
	if a.ConfigPath != "" {
		return a.ConfigPath
	}
	return config.DefaultPath()
}

func (a *App) handoff(t domain.UserType) string {
	if a.Handoff == nil {
		return ""
	}
	return a.Handoff(t)
}

// NewRootCmd creates the top-level "onboard" command. Without a subcommand
// it runs the interactive onboarding chat.
func NewRootCmd(app *App) *cobra.Command {
	var src session.Source

	root := &cobra.Command{
		Use:   "onboard",
		Short: "Conversational onboarding for YoLearn students and teachers",
		Long: `Walks a student or teacher through a short chat that builds their
learning profile and saves it to YoLearn.

The identity comes from an onboarding link (--url), from --user-id and
--user-type, or from the last session on this machine.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return errNotInteractive
			}
			p := tea.NewProgram(newAppModel(app, src), tea.WithAltScreen(), tea.WithContext(app.ctx()))
			_, err := p.Run()
			return err
		},
	}

	root.Flags().StringVar(&src.URL, "url", "", "Onboarding link carrying user_id and user_type")
	root.Flags().StringVar(&src.UserID, "user-id", "", "User id to onboard")
	root.Flags().StringVar(&src.UserType, "user-type", "", "User type: student or teacher")
	root.MarkFlagsRequiredTogether("user-id", "user-type")
	root.SetGlobalNormalizationFunc(underscoreFlags)

	root.AddCommand(
		newStatusCmd(app),
		newSessionCmd(app),
		newStepsCmd(),
		newReplayCmd(app),
		newConfigCmd(app),
	)

	return root
}

// underscoreFlags accepts the link's parameter spelling, so --user_id works
// like --user-id.
func underscoreFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func (a *App) ctx() context.Context {
	if a.Context != nil {
		return a.Context
	}
	return context.Background()
}
