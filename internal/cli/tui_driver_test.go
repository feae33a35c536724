package cli

import (
	"testing"

	"github.com/alexanderramin/onboard/internal/session"
	"github.com/alexanderramin/onboard/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals (the
// active view and the shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for src, sets the terminal size and
// drains Init, which runs the whole bootstrap against the test App.
func NewTestDriver(t *testing.T, app *App, src session.Source) *TestDriver {
	t.Helper()

	m := newAppModel(app, src)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the active view.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Chat returns the active chat view, failing the test when another view is
// showing.
func (d *TestDriver) Chat() *chatView {
	d.T.Helper()
	v, ok := d.appModel().activeView().(*chatView)
	if !ok {
		d.T.Fatalf("active view is %v, want chat", d.ActiveViewID())
	}
	return v
}

// RequireView fails the test unless the active view is want.
func (d *TestDriver) RequireView(want ViewID) {
	d.T.Helper()
	if got := d.ActiveViewID(); got != want {
		d.T.Fatalf("active view = %v, want %v\n%s", got, want, d.View())
	}
}

// FireAutoAdvance delivers the auto-advance timer for the current
// selection. Timer commands never reach the model under the driver.
func (d *TestDriver) FireAutoAdvance() {
	d.Send(autoAdvanceMsg{version: d.Chat().engine.SelectionVersion()})
}

// Pick moves the option cursor to label and toggles it with space.
func (d *TestDriver) Pick(label string) {
	d.T.Helper()
	v := d.Chat()
	options := v.engine.Prompt().Options
	idx := -1
	for i, o := range options {
		if o == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.T.Fatalf("option %q not offered; have %v", label, options)
	}
	for v.cursor > idx {
		d.PressUp()
	}
	for v.cursor < idx {
		d.PressDown()
	}
	d.PressSpace()
}
