package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
)

// noticeView shows an error that ends the run.
type noticeView struct {
	state   *SharedState
	message string
}

func newNoticeView(state *SharedState, message string) *noticeView {
	return &noticeView{state: state, message: message}
}

func (v *noticeView) Init() tea.Cmd { return nil }

func (v *noticeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.Type == tea.KeyEnter, k.Type == tea.KeyEsc, k.String() == "q":
			return v, quitApp
		}
	}
	return v, nil
}

func (v *noticeView) View() string {
	return "\n  " + formatter.FormatError(v.message) + "\n"
}

func (v *noticeView) ID() ViewID    { return ViewNotice }
func (v *noticeView) Title() string { return "Error" }
func (v *noticeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "exit")),
	}
}
