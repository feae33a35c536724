package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// identityView wraps the identity huh.Form. Completing it persists the
// identity and resumes the bootstrap.
type identityView struct {
	state  *SharedState
	fields *identityFields
	form   *huh.Form
	sent   bool
}

func newIdentityView(state *SharedState, problem error) *identityView {
	fields := &identityFields{}
	msg := ""
	if problem != nil {
		msg = problem.Error()
	}
	return &identityView{
		state:  state,
		fields: fields,
		form:   identityForm(fields, msg),
	}
}

func (v *identityView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *identityView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, quitApp
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted && !v.sent {
		return v, v.submit()
	}
	return v, cmd
}

// submit hands the entered identity to the bootstrap. It fires once.
func (v *identityView) submit() tea.Cmd {
	id := v.fields.identity()
	if !id.Valid() {
		return nil
	}
	v.sent = true
	return rememberIdentityCmd(v.state, id)
}

func (v *identityView) View() string {
	return v.form.View()
}

func (v *identityView) ID() ViewID    { return ViewIdentity }
func (v *identityView) Title() string { return "Who are you?" }
func (v *identityView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit")),
	}
}
