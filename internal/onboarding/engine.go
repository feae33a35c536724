package onboarding

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/onboard/internal/domain"
)

// Phase is the coarse state of an engine.
type Phase int

const (
	PhaseUnset Phase = iota
	PhaseName
	PhaseStep
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseName:
		return "name"
	case PhaseStep:
		return "step"
	case PhaseComplete:
		return "complete"
	default:
		return "unset"
	}
}

const (
	namePrompt     = "Hello! Welcome to YoLearn. What should I call you?"
	savingMessage  = "Saving your profile..."
	resumeIntro    = "Welcome back! Let's continue your %s onboarding."
	completedIntro = "Welcome back! Your %s profile is complete."
)

// Prompt is what the user is currently being asked.
type Prompt struct {
	Step    int
	Title   string
	Intro   string // one-off greeting shown above the question
	Notice  string // set when options could not be loaded
	Text    string
	Mode    InputMode
	Options []string
}

// EffectKind identifies the side effect an engine transition requests.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectFetch
	EffectSave
)

// Effect is a side effect the caller must perform and hand back to Resolve.
type Effect struct {
	Kind    EffectKind
	Step    int // the step whose options are fetched, or the last step on save
	Loading string
	Query   OptionQuery
	Save    SaveRequest
}

// Outcome is the result of performing an Effect.
type Outcome struct {
	Kind    EffectKind
	Options []string
	Err     error
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver routes engine events to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine drives one onboarding session through the name gate and the step
// table of its user type. It performs no I/O: transitions that need the
// network return an Effect, and the caller reports back through Resolve.
// An Engine is not safe for concurrent use.
type Engine struct {
	identity domain.Identity
	table    *Table
	phase    Phase
	cursor   int
	draft    *domain.Draft
	stored   *domain.Profile

	waiting bool
	pending *Effect
	intro   string

	prompt    Prompt
	presented map[int]Prompt
	sel       Selection

	saved       bool
	saveErr     error
	completions int

	observer Observer
}

// NewEngine creates an engine for id. When id carries a valid user type the
// engine starts at the name gate.
func NewEngine(id domain.Identity, opts ...Option) *Engine {
	e := &Engine{
		identity:  id,
		presented: make(map[int]Prompt),
		observer:  NoopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if id.UserType.Valid() {
		_ = e.EstablishUserType(id.UserType)
	}
	return e
}

// EstablishUserType selects the step table and puts the cursor on step 1
// behind the name prompt. Changing the type of a running session discards the
// draft, including the captured name, and returns the cursor to step 1.
func (e *Engine) EstablishUserType(t domain.UserType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrNoUserType, t)
	}
	if e.waiting {
		return ErrBusy
	}
	if e.table != nil && e.table.UserType == t {
		return nil
	}
	table, err := TableFor(t)
	if err != nil {
		return err
	}
	e.table = table
	e.identity.UserType = t
	e.draft = domain.NewDraft(t)
	e.stored = nil
	e.presented = make(map[int]Prompt)
	e.saved, e.saveErr = false, nil
	e.toNameGate("")
	return nil
}

func (e *Engine) toNameGate(intro string) {
	e.phase = PhaseName
	e.cursor = 1
	e.prompt = Prompt{Intro: intro, Text: namePrompt, Mode: ModeText}
	e.sel.reset(ModeText)
}

// Start positions the engine according to the bootstrap entry. A resumed
// session may need options for the step it lands on, in which case a fetch
// effect is returned.
func (e *Engine) Start(entry Entry) (Effect, error) {
	if e.table == nil {
		return Effect{}, ErrNoUserType
	}
	if e.waiting {
		return Effect{}, ErrBusy
	}
	label := strings.ToLower(e.table.UserType.Label())
	var profile *domain.Profile
	if entry.Status != nil {
		profile = entry.Status.Profile
	}

	switch entry.Kind {
	case EntryCompleted:
		e.draft = domain.NewDraft(e.table.UserType)
		e.draft.Seed(profile)
		e.stored = profile
		e.saved = true
		e.phase = PhaseComplete
		e.cursor = e.table.TotalSteps()
		e.prompt = Prompt{Step: e.cursor, Text: fmt.Sprintf(completedIntro, label)}
		e.emit(Event{Kind: EventStarted, Step: e.cursor})
		return Effect{}, nil

	case EntryResume:
		e.draft = domain.NewDraft(e.table.UserType)
		e.draft.Seed(profile)
		e.stored = profile
		intro := fmt.Sprintf(resumeIntro, label)
		if e.draft.Name == "" {
			e.toNameGate(intro)
			e.emit(Event{Kind: EventStarted})
			return Effect{}, nil
		}
		e.phase = PhaseStep
		e.intro = intro
		k := e.firstUnanswered()
		e.emit(Event{Kind: EventStarted, Step: k})
		return e.present(k), nil

	default:
		e.draft = domain.NewDraft(e.table.UserType)
		e.toNameGate("")
		e.emit(Event{Kind: EventStarted})
		return Effect{}, nil
	}
}

func (e *Engine) firstUnanswered() int {
	for _, s := range e.table.Steps {
		if !e.draft.Has(s.Field) {
			return s.Index
		}
	}
	return e.table.LastStep()
}

// present shows step k, either directly or after fetching its options.
func (e *Engine) present(k int) Effect {
	step, _ := e.table.Step(k)
	if step.Source == nil {
		e.show(k, nil, nil)
		return Effect{}
	}
	eff := Effect{
		Kind:    EffectFetch,
		Step:    k,
		Loading: step.Loading,
		Query:   e.query(step.Source),
	}
	e.waiting = true
	e.pending = &eff
	return eff
}

func (e *Engine) query(src *Source) OptionQuery {
	q := OptionQuery{Kind: src.Query, Params: make(map[string]domain.Choice, len(src.Params))}
	for _, p := range src.Params {
		q.Params[p.Name] = e.draft.Value(p.Field)
	}
	return q
}

// show makes step k the current prompt. A non-nil fetchErr switches the
// prompt to free text with the step's fallback notice.
func (e *Engine) show(k int, options []string, fetchErr error) {
	step, _ := e.table.Step(k)
	p := Prompt{
		Step:  k,
		Title: step.Title,
		Text:  e.table.Question(k),
		Mode:  step.Mode,
	}
	switch {
	case fetchErr != nil:
		p.Mode = ModeText
		p.Notice = step.Fallback
	case step.Source != nil:
		p.Options = withOthers(options)
	}
	e.phase = PhaseStep
	e.cursor = min(k, e.table.TotalSteps())
	e.presented[k] = p
	p.Intro, e.intro = e.intro, ""
	e.prompt = p
	e.sel.reset(p.Mode)
}

// SubmitName captures the user's name and presents the first step.
func (e *Engine) SubmitName(text string) error {
	switch e.phase {
	case PhaseUnset:
		return ErrNoUserType
	case PhaseStep, PhaseComplete:
		return ErrNameAlreadySet
	}
	if e.waiting {
		return ErrBusy
	}
	name := strings.TrimSpace(text)
	if name == "" {
		return ErrEmptyAnswer
	}
	e.draft.Name = name
	e.show(1, nil, nil)
	e.prompt.Text = fmt.Sprintf("Nice to meet you, %s! %s", name, e.prompt.Text)
	e.presented[1] = e.prompt
	e.emit(Event{Kind: EventNameCaptured, Step: 0})
	return nil
}

// SubmitAnswer records ans for the current step and returns the effect that
// leads to the next prompt. The engine refuses further submissions until the
// effect is resolved.
func (e *Engine) SubmitAnswer(ans Answer) (Effect, error) {
	switch e.phase {
	case PhaseUnset:
		return Effect{}, ErrNoUserType
	case PhaseName, PhaseComplete:
		return Effect{}, ErrNotCollecting
	}
	if e.waiting {
		return Effect{}, ErrBusy
	}
	step, ok := e.table.Step(e.cursor)
	if !ok {
		return Effect{}, ErrNotCollecting
	}
	choice, err := normalize(step.Mode, ans)
	if err != nil {
		return Effect{}, err
	}
	e.draft.Set(step.Field, choice)
	e.sel.reset(ModeText)
	e.emit(Event{Kind: EventAnswered, Step: step.Index, Field: step.Field})

	if step.Index == e.table.LastStep() {
		id := e.identity
		id.Name = e.draft.Name
		eff := Effect{
			Kind:    EffectSave,
			Step:    step.Index,
			Loading: savingMessage,
			Save:    SaveRequest{Identity: id, Draft: e.draft.Clone()},
		}
		e.waiting = true
		e.pending = &eff
		return eff, nil
	}
	return e.present(step.Index + 1), nil
}

// Submit routes the user's input to the name gate or to the current step.
// In select steps the current selection is submitted and text is ignored.
func (e *Engine) Submit(text string) (Effect, error) {
	if e.phase == PhaseName {
		return Effect{}, e.SubmitName(text)
	}
	if e.phase == PhaseStep && e.prompt.Mode != ModeText {
		return e.SubmitAnswer(e.sel.Answer())
	}
	return e.SubmitAnswer(TextAnswer(text))
}

// Resolve applies the outcome of the pending effect and clears the
// in-flight guard. A failed fetch still advances, with the step shown as a
// free-text question. A failed save still completes the session.
func (e *Engine) Resolve(out Outcome) (Prompt, error) {
	if !e.waiting || e.pending == nil {
		return e.prompt, ErrNothingPending
	}
	eff := *e.pending
	defer e.clearPending()

	switch eff.Kind {
	case EffectFetch:
		step, _ := e.table.Step(eff.Step)
		if out.Err != nil {
			e.emit(Event{Kind: EventOptionsFailed, Step: eff.Step, Field: step.Field, Err: out.Err})
		} else {
			e.emit(Event{Kind: EventOptionsLoaded, Step: eff.Step, Field: step.Field, Count: len(out.Options)})
		}
		e.show(eff.Step, out.Options, out.Err)

	case EffectSave:
		e.saved = out.Err == nil
		e.saveErr = out.Err
		if out.Err != nil {
			e.emit(Event{Kind: EventSaveFailed, Step: eff.Step, Err: out.Err})
		}
		e.complete()
	}
	return e.prompt, nil
}

func (e *Engine) complete() {
	if e.phase == PhaseComplete {
		return
	}
	e.phase = PhaseComplete
	e.cursor = e.table.TotalSteps()
	e.completions++
	text := e.table.DoneUnsaved
	if e.saved {
		text = e.table.DoneSaved
	}
	e.prompt = Prompt{Step: e.cursor, Text: text}
	e.sel.reset(ModeText)
	e.emit(Event{Kind: EventCompleted, Step: e.cursor, Saved: e.saved})
}

func (e *Engine) clearPending() {
	e.waiting = false
	e.pending = nil
}

// Settle performs eff against ports and resolves it. The in-flight guard is
// cleared even if performing the effect panics.
func (e *Engine) Settle(ctx context.Context, ports Ports, eff Effect) Prompt {
	if eff.Kind == EffectNone {
		return e.prompt
	}
	defer func() {
		if e.waiting {
			e.clearPending()
		}
	}()
	p, _ := e.Resolve(ports.Perform(ctx, eff))
	return p
}

// Answer submits ans and settles the resulting effect in one call.
func (e *Engine) Answer(ctx context.Context, ports Ports, ans Answer) (Prompt, error) {
	eff, err := e.SubmitAnswer(ans)
	if err != nil {
		return e.prompt, err
	}
	return e.Settle(ctx, ports, eff), nil
}

// Rewind returns to the previous step. The cached prompt is shown again when
// there is one; otherwise the step's options are fetched. The stored answer
// is kept until the step is answered again.
func (e *Engine) Rewind() (Effect, error) {
	if e.phase != PhaseStep {
		return Effect{}, ErrCannotRewind
	}
	if e.waiting {
		return Effect{}, ErrBusy
	}
	if e.cursor <= 1 {
		return Effect{}, ErrCannotRewind
	}
	k := e.cursor - 1
	e.emit(Event{Kind: EventRewound, Step: k})
	if p, ok := e.presented[k]; ok {
		e.cursor = k
		p.Intro = ""
		e.prompt = p
		e.sel.reset(p.Mode)
		return Effect{}, nil
	}
	return e.present(k), nil
}

// Toggle applies a click on option in a select step.
func (e *Engine) Toggle(option string) bool {
	if e.phase != PhaseStep || e.waiting || e.prompt.Mode == ModeText {
		return false
	}
	if !containsOption(e.prompt.Options, option) {
		return false
	}
	return e.sel.Toggle(option)
}

func containsOption(options []string, o string) bool {
	for _, v := range options {
		if v == o {
			return true
		}
	}
	return false
}

// SetOther records the text that replaces OthersOption.
func (e *Engine) SetOther(text string) { e.sel.SetOther(text) }

// CanProceed reports whether the current input may be submitted.
func (e *Engine) CanProceed(text string) bool {
	if e.waiting {
		return false
	}
	switch e.phase {
	case PhaseName:
		return strings.TrimSpace(text) != ""
	case PhaseStep:
		if e.prompt.Mode == ModeText {
			return strings.TrimSpace(text) != ""
		}
		return e.sel.Ready()
	default:
		return false
	}
}

// AutoAdvanceEligible reports whether the current selection should be
// submitted automatically after the configured delay.
func (e *Engine) AutoAdvanceEligible() bool {
	return e.phase == PhaseStep && !e.waiting && e.sel.AutoAdvanceEligible()
}

// AutoAdvanceDue reports whether a timer scheduled at selection version v
// should still fire. Any later change to the selection revokes it.
func (e *Engine) AutoAdvanceDue(v uint64) bool {
	return e.AutoAdvanceEligible() && e.sel.Version() == v
}

func (e *Engine) emit(ev Event) {
	if e.table != nil {
		ev.UserType = e.table.UserType
	}
	e.observer.OnEvent(ev)
}

func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) Cursor() int { return e.cursor }

// TotalSteps is zero until the user type is established.
func (e *Engine) TotalSteps() int {
	if e.table == nil {
		return 0
	}
	return e.table.TotalSteps()
}

func (e *Engine) Table() *Table { return e.table }

func (e *Engine) Prompt() Prompt { return e.prompt }

func (e *Engine) Waiting() bool { return e.waiting }

// Pending returns the effect awaiting resolution, if any.
func (e *Engine) Pending() (Effect, bool) {
	if e.pending == nil {
		return Effect{}, false
	}
	return *e.pending, true
}

func (e *Engine) Identity() domain.Identity {
	id := e.identity
	if e.draft != nil && e.draft.Name != "" {
		id.Name = e.draft.Name
	}
	return id
}

func (e *Engine) UserType() domain.UserType {
	if e.table == nil {
		return ""
	}
	return e.table.UserType
}

// Draft returns a copy of the draft.
func (e *Engine) Draft() *domain.Draft {
	if e.draft == nil {
		return domain.NewDraft(e.UserType())
	}
	return e.draft.Clone()
}

// StoredProfile is the profile loaded at start, if any.
func (e *Engine) StoredProfile() *domain.Profile { return e.stored }

func (e *Engine) Saved() bool { return e.saved }

func (e *Engine) SaveErr() error { return e.saveErr }

// Completions counts how many times the session reached completion.
func (e *Engine) Completions() int { return e.completions }

func (e *Engine) Selected() []string { return e.sel.Chosen() }

func (e *Engine) Other() string { return e.sel.Other() }

func (e *Engine) OthersActive() bool { return e.sel.OthersActive() }

func (e *Engine) SelectionVersion() uint64 { return e.sel.Version() }
