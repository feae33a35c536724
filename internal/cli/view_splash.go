package cli

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
)

// splashView shows a spinner while the app talks to the backend.
type splashView struct {
	state   *SharedState
	spin    spinner.Model
	message string
}

func newSplashView(state *SharedState, message string) *splashView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.StylePurple
	return &splashView{state: state, spin: s, message: message}
}

func (v *splashView) Init() tea.Cmd { return v.spin.Tick }

func (v *splashView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *splashView) View() string {
	return "\n  " + v.spin.View() + " " + formatter.Dim(v.message) + "\n"
}

func (v *splashView) ID() ViewID                { return ViewSplash }
func (v *splashView) Title() string             { return "" }
func (v *splashView) ShortHelp() []key.Binding { return nil }
