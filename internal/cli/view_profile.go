package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/domain"
)

// reloadProfileMsg asks the app to fetch the status again and show the
// matching view.
type reloadProfileMsg struct{}

// profileView displays a completed profile.
type profileView struct {
	state   *SharedState
	profile *domain.Profile
}

func newProfileView(state *SharedState, p *domain.Profile) *profileView {
	return &profileView{state: state, profile: p}
}

func (v *profileView) Init() tea.Cmd { return nil }

func (v *profileView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case k.String() == "r":
		return v, func() tea.Msg { return reloadProfileMsg{} }
	case k.String() == "q", k.Type == tea.KeyEnter, k.Type == tea.KeyEsc:
		return v, quitApp
	}
	return v, nil
}

func (v *profileView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	name := "there"
	if v.profile != nil && v.profile.Name != "" {
		name = v.profile.Name
	}
	b.WriteString(formatter.FormatBot("Welcome back, " + name + "! Here is your profile."))
	b.WriteString("\n\n")
	b.WriteString(formatter.FormatProfile(v.profile, v.state.Identity.UserType))
	b.WriteString("\n")
	if link := formatter.FormatHandoff(v.state.App.handoff(v.state.Identity.UserType)); link != "" {
		b.WriteString("\n" + link + "\n")
	}
	return b.String()
}

func (v *profileView) ID() ViewID    { return ViewProfile }
func (v *profileView) Title() string { return "Profile" }
func (v *profileView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "exit")),
	}
}
