package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// quitMsg asks the app to exit after the current frame.
type quitMsg struct{}

func quitApp() tea.Msg { return quitMsg{} }
