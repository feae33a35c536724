// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is executed and fed back
// until the chain runs dry. Cmds that block on timers (spinner ticks, cursor
// blinks, deferred auto-advance) do not return within the command timeout and
// are dropped, so tests deliver such messages explicitly.
package teatest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may run.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates immediate Cmds (fake backend calls, message
// factories) from timer-driven ones.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.QuitMsg shows up while draining.
	Quitting bool

	// Dropped counts Cmds that timed out and were skipped.
	Dropped int

	timeout time.Duration
	seen    []tea.Msg
	record  bool
}

// New wraps model. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides how long a Cmd may run before it is dropped.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// WithRecording keeps every drained message for later inspection.
func WithRecording() Option {
	return func(d *Driver) { d.record = true }
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send runs msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// PressCtrlB is the step-back key in the chat view.
func (d *Driver) PressCtrlB() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlB})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
}

func (d *Driver) PressSpace() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func (d *Driver) PressBackspace() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyBackspace})
}

// Type sends s one rune at a time. Spaces go out as KeySpace, the way a
// terminal reports them.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		if r == ' ' {
			d.PressSpace()
			continue
		}
		d.PressKey(r)
	}
}

// Submit types s and presses Enter.
func (d *Driver) Submit(s string) {
	d.T.Helper()
	d.Type(s)
	d.PressEnter()
}

func (d *Driver) View() string {
	return d.Model.View()
}

// Seen returns the drained messages when recording is on.
func (d *Driver) Seen() []tea.Msg {
	return append([]tea.Msg(nil), d.seen...)
}

// RequireContains fails the test when the rendered view lacks want.
func (d *Driver) RequireContains(want string) {
	d.T.Helper()
	if v := d.View(); !strings.Contains(v, want) {
		d.T.Fatalf("view does not contain %q:\n%s", want, v)
	}
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := d.exec(cmd)
	if !ok {
		d.Dropped++
		return
	}
	if msg == nil || isTimerMsg(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drainCmd(sub, depth+1)
		}
		return
	}
	if seq, ok := msg.(sequenceMsg); ok {
		for _, sub := range seq {
			d.drainCmd(sub, depth+1)
		}
		return
	}

	if d.record {
		d.seen = append(d.seen, msg)
	}

	// The runtime normally swallows QuitMsg; note it and let the model see it.
	if _, isQuit := msg.(tea.QuitMsg); isQuit {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// sequenceMsg matches the unexported message tea.Sequence produces.
type sequenceMsg []tea.Cmd

// exec runs cmd with the driver's timeout. ok is false when it timed out.
func (d *Driver) exec(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		if seq := asSequence(msg); seq != nil {
			return seq, true
		}
		return msg, true
	case <-time.After(d.timeout):
		return nil, false
	}
}

// asSequence converts tea.Sequence output, whose type is unexported, into a
// sequenceMsg so its Cmds run in order.
func asSequence(msg tea.Msg) sequenceMsg {
	if !strings.HasSuffix(fmt.Sprintf("%T", msg), "sequenceMsg") {
		return nil
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return nil
	}
	out := make(sequenceMsg, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if cmd, ok := v.Index(i).Interface().(tea.Cmd); ok {
			out = append(out, cmd)
		}
	}
	return out
}

// isTimerMsg spots cursor blink and spinner tick messages that slipped
// through the timeout; feeding them back would schedule more timers.
func isTimerMsg(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink") || strings.HasSuffix(t, "spinner.TickMsg")
}
