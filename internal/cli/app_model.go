package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/session"
)

// appModel is the root bubbletea Model for the TUI. It runs the bootstrap
// sequence (identity, start-onboarding, status) and then hosts one view at
// a time.
type appModel struct {
	state    *SharedState
	active   View
	quitting bool
}

func newAppModel(app *App, src session.Source) appModel {
	state := &SharedState{App: app, Source: src}
	return appModel{
		state:  state,
		active: newSplashView(state, "Checking your session..."),
	}
}

func (m appModel) activeView() View { return m.active }

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.active.Init(), resolveIdentityCmd(m.state))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m.forward(msg)

	case identityResolvedMsg:
		id := msg.resolved.Identity
		m.state.Identity = id
		m.state.Origin = msg.resolved.Origin
		if msg.resolved.Origin.Explicit() && m.state.App.Starter != nil {
			return m.show(newSplashView(m.state, "Starting onboarding..."), startOnboardingCmd(m.state, id))
		}
		return m.show(newSplashView(m.state, "Checking your profile..."), statusCmd(m.state, id))

	case identityMissingMsg:
		return m.show(newIdentityView(m.state, msg.err), nil)

	case onboardingStartedMsg:
		return m.show(newSplashView(m.state, "Checking your profile..."), statusCmd(m.state, m.state.Identity))

	case startFailedMsg:
		return m.show(newNoticeView(m.state, "Failed to start onboarding: "+msg.err.Error()), nil)

	case entryMsg:
		if msg.entry.Kind == onboarding.EntryCompleted {
			return m.show(newProfileView(m.state, msg.entry.Status.Profile), nil)
		}
		return m.show(newChatView(m.state, msg.entry), nil)

	case reloadProfileMsg:
		return m.show(newSplashView(m.state, "Loading your profile..."), statusCmd(m.state, m.state.Identity))

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m.forward(msg)
}

// show makes v the active view and runs its Init alongside next.
func (m appModel) show(v View, next tea.Cmd) (tea.Model, tea.Cmd) {
	m.state.App.logger().Debug("view", zap.String("title", v.Title()))
	m.active = v
	if m.state.Width > 0 {
		updated, _ := v.Update(tea.WindowSizeMsg{Width: m.state.Width, Height: m.state.Height})
		m.active = updated.(View)
	}
	return m, tea.Batch(m.active.Init(), next)
}

func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.active.Update(msg)
	m.active = updated.(View)
	return m, cmd
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.active.View(),
		m.renderStatusBar(),
	}
	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	header := formatter.StylePurple.Render("onboard")
	if t := m.active.Title(); t != "" {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(t)
	}
	if id := m.state.Identity; id.Valid() {
		header += "  " + formatter.Dim("[") + formatter.UserTypeBadge(id.UserType) +
			" " + formatter.StyleGreen.Render(id.UserID) + formatter.Dim("]")
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	for _, b := range m.active.ShortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	hints = append(hints, formatter.Dim("ctrl+c: quit"))

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
