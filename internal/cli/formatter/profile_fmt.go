package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/repository"
)

// FormatProfile renders a stored profile in a box, one row per field of
// the user type, in display order.
func FormatProfile(p *domain.Profile, t domain.UserType) string {
	if p == nil {
		return Dim("No profile found.")
	}
	if !t.Valid() {
		t = p.UserType
	}
	pairs := [][2]string{
		{"Name", p.Name},
		{"Role", UserTypeBadge(t)},
	}
	for _, f := range domain.ProfileFields(t) {
		pairs = append(pairs, [2]string{f.Label(), p.Value(f).String()})
	}
	title := "Your profile"
	if t.Valid() {
		title = t.Label() + " profile"
	}
	body := RenderKeyValues(pairs)
	if !p.UpdatedAt.IsZero() {
		body += "\n\n" + Dim("Updated "+HumanTimestamp(p.UpdatedAt))
	}
	return RenderBox(title, body)
}

// FormatStatus renders the backend's onboarding status for id.
func FormatStatus(id domain.Identity, st *domain.Status) string {
	var b strings.Builder
	b.WriteString(Header("Onboarding status"))
	b.WriteString("\n")

	state := StyleBlue.Render("○ Not started")
	switch {
	case st == nil:
		state = StyleDim.Render("? Unknown")
	case st.Completed:
		state = StyleGreen.Render("✔ Completed")
	case st.HasData:
		state = StyleYellow.Render("◐ In progress")
	}
	b.WriteString(RenderKeyValues([][2]string{
		{"User", id.UserID},
		{"Role", UserTypeBadge(id.UserType)},
		{"State", state},
	}))
	b.WriteString("\n")

	if st != nil && st.Profile != nil {
		answered := len(st.Profile.AnsweredFields(id.UserType))
		total := len(domain.ProfileFields(id.UserType))
		if total > 0 {
			b.WriteString("\n")
			b.WriteString(RenderProgress(float64(answered)/float64(total), 24))
			b.WriteString(Dim(fmt.Sprintf("  %d of %d answered", answered, total)))
			b.WriteString("\n\n")
		}
		b.WriteString(FormatProfile(st.Profile, id.UserType))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSteps renders the step table of one user type.
func FormatSteps(t *onboarding.Table) string {
	rows := make([][]string, 0, len(t.Steps))
	for _, s := range t.Steps {
		source := Dim("--")
		if s.Source != nil {
			source = string(s.Source.Query)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Index),
			s.Title,
			string(s.Field),
			s.Mode.String(),
			source,
		})
	}
	return Header(t.UserType.Label()+" steps") + "\n" +
		RenderTable([]string{"#", "TITLE", "FIELD", "INPUT", "OPTIONS"}, rows)
}

// FormatCompletions lists locally recorded completions, newest first.
func FormatCompletions(list []*repository.Completion, now time.Time) string {
	if len(list) == 0 {
		return Dim("No local completions recorded.")
	}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		note := c.Error
		if note == "" {
			note = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			string(c.UserType),
			SavedPill(c.Saved),
			HumanTimestampFrom(c.CompletedAt, now),
			note,
		})
	}
	return RenderTable([]string{"ID", "ROLE", "RESULT", "WHEN", "NOTE"}, rows)
}
