package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/domain"
)

// onboardHuhTheme returns a huh theme using the formatter palette.
func onboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// identityFields holds the values bound to the identity form.
type identityFields struct {
	UserID   string
	UserType domain.UserType
}

func (f identityFields) identity() domain.Identity {
	return domain.Identity{UserID: strings.TrimSpace(f.UserID), UserType: f.UserType}
}

func validateUserID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("user id is required")
	}
	return nil
}

// identityForm asks for the user id and user type when neither the command
// line nor the local store supplied them. problem, when set, explains why a
// supplied identity was rejected.
func identityForm(fields *identityFields, problem string) *huh.Form {
	desc := "Paste the user id from your onboarding link."
	if problem != "" {
		desc = problem
	}
	if fields.UserType == "" {
		fields.UserType = domain.UserTypeStudent
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Description(desc).
				Value(&fields.UserID).
				Validate(validateUserID),
			huh.NewSelect[domain.UserType]().
				Title("I am a...").
				Options(
					huh.NewOption("Student", domain.UserTypeStudent),
					huh.NewOption("Teacher", domain.UserTypeTeacher),
				).
				Value(&fields.UserType),
		),
	).WithTheme(onboardHuhTheme()).WithShowHelp(false)
}
