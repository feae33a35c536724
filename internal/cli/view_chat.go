package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
)

const countrySuggestions = 4

type lineRole int

const (
	roleBot lineRole = iota
	roleUser
	roleNotice
)

// chatLine is one entry of the transcript.
type chatLine struct {
	id   string
	role lineRole
	text string
}

// effectDoneMsg carries the outcome of an engine effect back to the view.
type effectDoneMsg struct {
	out onboarding.Outcome
}

// autoAdvanceMsg fires after the auto-advance delay for the selection
// version it was scheduled at.
type autoAdvanceMsg struct {
	version uint64
}

type completionRecordedMsg struct{}

// chatView runs the onboarding conversation on top of an onboarding.Engine.
type chatView struct {
	state  *SharedState
	engine *onboarding.Engine
	input  textinput.Model
	spin   spinner.Model

	lines   []chatLine
	cursor  int  // highlighted option in select steps
	onOther bool // keys go to the "Others" text input
	loading string
	hint    string

	initial onboarding.Effect
}

func newChatView(state *SharedState, entry onboarding.Entry) *chatView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	v := &chatView{
		state:  state,
		engine: onboarding.NewEngine(state.Identity, onboarding.WithObserver(state.App.observer())),
		input:  ti,
		spin:   sp,
	}

	eff, err := v.engine.Start(entry)
	if err != nil {
		v.addLine(roleNotice, err.Error())
		return v
	}
	if eff.Kind == onboarding.EffectNone {
		v.showPrompt(v.engine.Prompt())
	}
	v.initial = eff
	return v
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *chatView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.perform(v.initial))
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.input.Width = max(msg.Width-8, 10)
		return v, nil

	case spinner.TickMsg:
		if v.loading == "" {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case effectDoneMsg:
		return v, v.resolve(msg.out)

	case autoAdvanceMsg:
		if v.loading != "" || !v.engine.AutoAdvanceDue(msg.version) {
			return v, nil
		}
		return v, v.submit()

	case completionRecordedMsg:
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	var b strings.Builder

	if v.engine.Phase() == onboarding.PhaseStep {
		table := v.engine.Table()
		if seg := formatter.RenderStepSegments(v.engine.Cursor(), table.LastStep(), table.Title(v.engine.Cursor())); seg != "" {
			b.WriteString(seg)
			b.WriteString("\n\n")
		}
	}

	for _, l := range v.lines {
		b.WriteString(renderLine(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.loading != "":
		b.WriteString(v.spin.View() + " " + formatter.Dim(v.loading) + "\n")
	case v.engine.Phase() == onboarding.PhaseComplete:
		if v.engine.Saved() {
			b.WriteString(formatter.Dim("enter: view your profile") + "\n")
		} else {
			b.WriteString(formatter.Dim("enter: exit") + "\n")
		}
	case v.selecting():
		b.WriteString(v.renderOptions())
	default:
		b.WriteString(formatter.StylePurple.Render("> ") + v.input.View() + "\n")
		if s := formatter.FormatSuggestions(v.suggestions()); s != "" {
			b.WriteString("  " + s + "\n")
		}
	}

	if v.hint != "" {
		b.WriteString(formatter.StyleYellow.Render(v.hint) + "\n")
	}
	return tail(b.String(), v.state)
}

// tail keeps the bottom of the transcript when it outgrows the terminal.
func tail(s string, state *SharedState) string {
	if state.Height <= 0 {
		return s
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if n := state.ContentHeight(); len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n") + "\n"
}

// ── View interface ───────────────────────────────────────────────────────────

func (v *chatView) ID() ViewID    { return ViewChat }
func (v *chatView) Title() string { return "Onboarding" }
func (v *chatView) ShortHelp() []key.Binding {
	switch {
	case v.engine.Phase() == onboarding.PhaseComplete:
		return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue"))}
	case v.selecting() && !v.onOther:
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "move")),
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
			key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "back")),
		}
	default:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
			key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "back")),
		}
	}
}

// ── input handling ───────────────────────────────────────────────────────────

func (v *chatView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.loading != "" {
		return nil
	}
	if v.engine.Phase() == onboarding.PhaseComplete {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc || msg.String() == "q" {
			if v.engine.Saved() {
				return func() tea.Msg { return reloadProfileMsg{} }
			}
			return quitApp
		}
		return nil
	}
	if msg.Type == tea.KeyCtrlB {
		return v.rewind()
	}

	if v.selecting() {
		return v.handleSelectKey(msg)
	}

	switch msg.Type {
	case tea.KeyEnter:
		return v.submit()
	case tea.KeyTab:
		if s := v.suggestions(); len(s) > 0 {
			v.input.SetValue(s[0])
			v.input.CursorEnd()
		}
		return nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.hint = ""
	return cmd
}

func (v *chatView) handleSelectKey(msg tea.KeyMsg) tea.Cmd {
	options := v.engine.Prompt().Options

	if v.onOther {
		switch msg.Type {
		case tea.KeyEnter:
			return v.submit()
		case tea.KeyUp, tea.KeyTab, tea.KeyEsc:
			v.onOther = false
			return nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		v.engine.SetOther(v.input.Value())
		v.hint = ""
		return cmd
	}

	switch {
	case msg.Type == tea.KeyUp || msg.String() == "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case msg.Type == tea.KeyDown || msg.String() == "j":
		if v.cursor < len(options)-1 {
			v.cursor++
		}
	case msg.Type == tea.KeyTab:
		if v.engine.OthersActive() {
			v.onOther = true
		}
	case msg.Type == tea.KeySpace || msg.String() == "x":
		return v.toggle(options[v.cursor])
	case msg.Type == tea.KeyEnter:
		if len(v.engine.Selected()) == 0 {
			if cmd := v.toggle(options[v.cursor]); v.engine.OthersActive() {
				return cmd
			}
		}
		return v.submit()
	}
	return nil
}

// toggle flips option and schedules auto-advance when the selection
// qualifies for it.
func (v *chatView) toggle(option string) tea.Cmd {
	if !v.engine.Toggle(option) {
		return nil
	}
	v.hint = ""
	if option == onboarding.OthersOption && v.engine.OthersActive() {
		v.onOther = true
		v.input.Reset()
		v.input.Placeholder = "Please specify"
		v.engine.SetOther("")
	}
	if v.state.App.AutoAdvance > 0 && v.engine.AutoAdvanceEligible() {
		version := v.engine.SelectionVersion()
		return tea.Tick(v.state.App.AutoAdvance, func(time.Time) tea.Msg {
			return autoAdvanceMsg{version: version}
		})
	}
	return nil
}

// submit sends the current input or selection to the engine.
func (v *chatView) submit() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if !v.engine.CanProceed(text) {
		v.hint = v.blockedHint()
		return nil
	}

	echo := text
	if v.selecting() {
		echo = v.selectionSummary()
	}
	wasName := v.engine.Phase() == onboarding.PhaseName

	eff, err := v.engine.Submit(text)
	if err != nil {
		v.hint = hintFor(err)
		return nil
	}
	v.hint = ""
	v.addLine(roleUser, echo)
	v.resetInput()

	var cmds []tea.Cmd
	if wasName {
		cmds = append(cmds, v.saveNameCmd(text))
	}
	if eff.Kind == onboarding.EffectNone {
		v.showPrompt(v.engine.Prompt())
	}
	cmds = append(cmds, v.perform(eff))
	return tea.Batch(cmds...)
}

func (v *chatView) rewind() tea.Cmd {
	target := v.engine.Cursor() - 1
	eff, err := v.engine.Rewind()
	if err != nil {
		if errors.Is(err, onboarding.ErrCannotRewind) {
			v.hint = "This is the first question."
		}
		return nil
	}
	v.hint = ""
	v.resetInput()
	v.addLine(roleNotice, "Going back to "+v.engine.Table().Title(target))
	if eff.Kind == onboarding.EffectNone {
		v.showPrompt(v.engine.Prompt())
		return nil
	}
	return v.perform(eff)
}

// perform runs eff in the background and reports back with effectDoneMsg.
func (v *chatView) perform(eff onboarding.Effect) tea.Cmd {
	if eff.Kind == onboarding.EffectNone {
		return nil
	}
	v.loading = eff.Loading
	ports, ctx := v.state.App.ports(), v.state.ctx()
	return tea.Batch(
		func() tea.Msg { return effectDoneMsg{out: ports.Perform(ctx, eff)} },
		v.spin.Tick,
	)
}

func (v *chatView) resolve(out onboarding.Outcome) tea.Cmd {
	v.loading = ""
	prompt, err := v.engine.Resolve(out)
	if err != nil {
		return nil
	}
	if out.Kind == onboarding.EffectSave {
		return v.finish(prompt)
	}
	v.showPrompt(prompt)
	return nil
}

// finish prints the closing message and records the completion locally.
func (v *chatView) finish(prompt onboarding.Prompt) tea.Cmd {
	v.addLine(roleBot, prompt.Text)
	if err := v.engine.SaveErr(); err != nil {
		v.addLine(roleNotice, "Your profile could not be saved: "+err.Error())
	}
	if v.engine.Saved() {
		if link := v.state.App.handoff(v.engine.UserType()); link != "" {
			v.addLine(roleBot, formatter.FormatHandoff(link))
		}
	}
	return v.recordCompletionCmd()
}

func (v *chatView) recordCompletionCmd() tea.Cmd {
	app, ctx := v.state.App, v.state.ctx()
	if app.Completions == nil {
		return nil
	}
	c := completionFor(app, v.engine)
	return func() tea.Msg {
		recordCompletion(ctx, app, c)
		return completionRecordedMsg{}
	}
}

func (v *chatView) saveNameCmd(name string) tea.Cmd {
	app, ctx := v.state.App, v.state.ctx()
	if app.Session == nil {
		return nil
	}
	return func() tea.Msg {
		if err := app.Session.SaveName(ctx, name); err != nil {
			app.logger().Warn("persisting name", zap.Error(err))
		}
		return nil
	}
}

// ── transcript helpers ───────────────────────────────────────────────────────

func (v *chatView) addLine(role lineRole, text string) {
	v.lines = append(v.lines, chatLine{id: v.state.App.newID(), role: role, text: text})
}

func (v *chatView) showPrompt(p onboarding.Prompt) {
	if p.Intro != "" {
		v.addLine(roleBot, p.Intro)
	}
	if p.Notice != "" {
		v.addLine(roleNotice, p.Notice)
	}
	if p.Text != "" {
		v.addLine(roleBot, p.Text)
	}
	v.cursor = 0
	v.onOther = false
	v.resetInput()
}

func (v *chatView) resetInput() {
	v.input.Reset()
	v.input.Placeholder = ""
	if v.engine.Phase() == onboarding.PhaseName {
		v.input.Placeholder = "Your name"
	}
}

func renderLine(l chatLine) string {
	switch l.role {
	case roleUser:
		return formatter.FormatUser(l.text)
	case roleNotice:
		return formatter.FormatNotice(l.text)
	default:
		return formatter.FormatBot(l.text)
	}
}

func (v *chatView) selecting() bool {
	return v.engine.Phase() == onboarding.PhaseStep && v.engine.Prompt().Mode != onboarding.ModeText
}

func (v *chatView) renderOptions() string {
	p := v.engine.Prompt()
	multi := p.Mode == onboarding.ModeMulti
	chosen := make(map[string]bool)
	for _, s := range v.engine.Selected() {
		chosen[s] = true
	}
	var b strings.Builder
	for i, o := range p.Options {
		b.WriteString(formatter.FormatOption(o, i == v.cursor && !v.onOther, chosen[o], multi))
		b.WriteString("\n")
	}
	if v.engine.OthersActive() {
		label := formatter.Dim("  Other: ")
		if v.onOther {
			label = formatter.StyleHeader.Render("▸ Other: ")
		}
		b.WriteString(label + v.input.View() + "\n")
	}
	return b.String()
}

// suggestions offers country names while the country question is open.
func (v *chatView) suggestions() []string {
	if v.engine.Phase() != onboarding.PhaseStep {
		return nil
	}
	step, ok := v.engine.Table().Step(v.engine.Cursor())
	if !ok || step.Field != domain.FieldCountry {
		return nil
	}
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}
	return onboarding.SuggestCountries(text, countrySuggestions)
}

// selectionSummary is the user's echo for a select step, with the Others
// sentinel replaced by the typed text.
func (v *chatView) selectionSummary() string {
	chosen := v.engine.Selected()
	out := make([]string, 0, len(chosen))
	for _, c := range chosen {
		if c == onboarding.OthersOption {
			c = strings.TrimSpace(v.engine.Other())
		}
		out = append(out, c)
	}
	return strings.Join(out, ", ")
}

func (v *chatView) blockedHint() string {
	switch {
	case v.engine.Waiting():
		return "One moment..."
	case v.engine.Phase() == onboarding.PhaseName:
		return "Please tell me your name."
	case v.selecting() && v.engine.OthersActive():
		return "Please specify your answer for Others."
	case v.selecting():
		return "Pick at least one option."
	default:
		return "Please type an answer."
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, onboarding.ErrEmptyAnswer):
		return "Please type an answer."
	case errors.Is(err, onboarding.ErrOtherTextRequired):
		return "Please specify your answer for Others."
	case errors.Is(err, onboarding.ErrBusy):
		return "One moment..."
	default:
		return err.Error()
	}
}
