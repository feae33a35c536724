package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/session"
	"github.com/alexanderramin/onboard/internal/testutil"
)

var studentFlags = session.Source{UserID: "u1", UserType: "student"}

// toCurriculum answers the name and country questions.
func toCurriculum(d *TestDriver) {
	d.T.Helper()
	d.Submit("Asha")
	d.Submit("India")
	d.RequireContains("Which curriculum are you following?")
}

// answerRemaining presses enter on every select step until the run ends,
// which picks the first option each time.
func answerRemaining(d *TestDriver) {
	d.T.Helper()
	for i := 0; i < 10 && d.Chat().engine.Phase() == onboarding.PhaseStep; i++ {
		d.PressEnter()
	}
	require.Equal(d.T, onboarding.PhaseComplete, d.Chat().engine.Phase())
}

func TestTUI_StudentFlowSavesProfile(t *testing.T) {
	app, f := testApp(t)
	d := NewTestDriver(t, app, studentFlags)

	d.RequireView(ViewChat)
	d.RequireContains("What should I call you?")
	require.Len(t, f.Gateway.Starts, 1)
	assert.Equal(t, "u1", f.Gateway.Starts[0].UserID)

	d.Submit("Asha")
	d.RequireContains("Nice to meet you, Asha! Which country are you studying in?")

	d.Type("Ind")
	d.RequireContains("India")
	d.PressTab()
	d.PressEnter()
	d.RequireContains("Which curriculum are you following?")

	d.PressEnter() // first option
	d.Pick("Option B")
	d.PressEnter()
	d.RequireContains("Which subjects are you studying?")

	d.Pick("Option A")
	d.Pick("Option C")
	d.PressEnter()
	d.PressEnter() // interests
	d.PressEnter() // styles
	d.PressEnter() // help preferences

	d.Pick(onboarding.OthersOption)
	d.Type("Exam prep")
	d.PressEnter()

	d.RequireContains("Your student profile is complete and saved")
	d.RequireContains("https://app.yolearn.ai/student")

	req, ok := f.Gateway.LastSave()
	require.True(t, ok)
	assert.Equal(t, "Asha", req.Identity.Name)
	assert.Equal(t, domain.Scalar("India"), req.Draft.Value(domain.FieldCountry))
	assert.Equal(t, domain.Scalar("Option A"), req.Draft.Value(domain.FieldCurriculum))
	assert.Equal(t, domain.Scalar("Option B"), req.Draft.Value(domain.FieldGrade))
	assert.Equal(t, domain.List("Option A", "Option C"), req.Draft.Value(domain.FieldSubjects))
	assert.Equal(t, domain.List("Exam prep"), req.Draft.Value(domain.FieldLearningGoals))

	calls := f.Options.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, onboarding.QueryStudentCurricula, calls[0].Kind)
	assert.Equal(t, domain.Scalar("India"), calls[0].Params["country"])

	stored, err := app.Session.Stored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Asha", stored.Name)

	list, err := app.Completions.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Saved)

	d.PressEnter()
	d.RequireView(ViewProfile)
	d.RequireContains("Welcome back, Asha! Here is your profile.")
}

func TestTUI_TeacherQuestions(t *testing.T) {
	app, f := testApp(t)
	d := NewTestDriver(t, app, session.Source{URL: "https://app.yolearn.ai/onboarding?user_id=t1&user_type=teacher"})

	d.Submit("Mr. Okafor")
	d.RequireContains("Which country are you teaching in?")
	d.Submit("Nigeria")
	d.RequireContains("Which curriculum do you follow?")

	calls := f.Options.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, onboarding.QueryTeacherCurricula, calls[0].Kind)
	assert.True(t, calls[0].Params["grade_levels"].IsEmpty())
}

func TestTUI_StartFailureShowsNotice(t *testing.T) {
	app, f := testApp(t)
	f.Gateway.StartErr = testutil.ErrFake

	d := NewTestDriver(t, app, studentFlags)

	d.RequireView(ViewNotice)
	d.RequireContains("Failed to start onboarding: fake backend failure")

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTUI_StoredIdentitySkipsStart(t *testing.T) {
	app, f := testApp(t)
	rememberIdentity(t, app, domain.Identity{UserID: "u1", UserType: domain.UserTypeStudent})

	d := NewTestDriver(t, app, session.Source{})

	d.RequireView(ViewChat)
	assert.Empty(t, f.Gateway.Starts)
	assert.Equal(t, session.OriginStored, d.State().Origin)
}

func TestTUI_CompletedShowsProfile(t *testing.T) {
	app, f := testApp(t)
	f.Gateway.Statuses["u1"] = &domain.Status{
		UserID: "u1", UserType: domain.UserTypeStudent, Completed: true, HasData: true,
		Profile: testutil.PartialProfile("Asha", map[domain.Field]domain.Choice{
			domain.FieldCountry: domain.Scalar("Kenya"),
		}),
	}

	d := NewTestDriver(t, app, studentFlags)

	d.RequireView(ViewProfile)
	d.RequireContains("Welcome back, Asha!")
	d.RequireContains("Kenya")

	d.PressKey('r')
	d.RequireView(ViewProfile)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTUI_ResumeLandsOnFirstUnanswered(t *testing.T) {
	app, f := testApp(t)
	f.Gateway.Statuses["u1"] = &domain.Status{
		UserID: "u1", UserType: domain.UserTypeStudent, HasData: true,
		Profile: testutil.PartialProfile("Asha", map[domain.Field]domain.Choice{
			domain.FieldCountry:    domain.Scalar("India"),
			domain.FieldCurriculum: domain.Scalar("CBSE"),
		}),
	}

	d := NewTestDriver(t, app, studentFlags)

	d.RequireView(ViewChat)
	d.RequireContains("Welcome back! Let's continue your student onboarding.")
	d.RequireContains("What grade are you in?")
	assert.Equal(t, 3, d.Chat().engine.Cursor())

	calls := f.Options.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.Scalar("CBSE"), calls[0].Params["curriculum"])
}

func TestTUI_StatusErrorStartsFresh(t *testing.T) {
	app, f := testApp(t)
	f.Gateway.StatusErr = testutil.ErrFake

	d := NewTestDriver(t, app, studentFlags)

	d.RequireView(ViewChat)
	assert.Equal(t, onboarding.PhaseName, d.Chat().engine.Phase())
}

func TestTUI_EmptyNameIsBlocked(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, studentFlags)

	d.PressEnter()
	d.RequireContains("Please tell me your name.")
	assert.Equal(t, onboarding.PhaseName, d.Chat().engine.Phase())
}

func TestTUI_FailedFetchFallsBackToText(t *testing.T) {
	app, f := testApp(t)
	f.Options.Failures[onboarding.QueryStudentCurricula] = testutil.ErrFake

	d := NewTestDriver(t, app, studentFlags)
	d.Submit("Asha")
	d.Submit("India")

	d.RequireContains("I couldn't fetch curriculum options. Please try again.")
	assert.Equal(t, onboarding.ModeText, d.Chat().engine.Prompt().Mode)

	d.Submit("CBSE")
	d.RequireContains("What grade are you in?")
	assert.Equal(t, domain.Scalar("CBSE"), d.Chat().engine.Draft().Value(domain.FieldCurriculum))
}

func TestTUI_OthersNeedsText(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, studentFlags)
	toCurriculum(d)

	d.Pick(onboarding.OthersOption)
	d.PressEnter()
	d.RequireContains("Please specify your answer for Others.")
	assert.Equal(t, 2, d.Chat().engine.Cursor())

	d.Type("Home school")
	d.PressEnter()
	d.RequireContains("What grade are you in?")
	d.RequireContains("Home school")
	assert.Equal(t, domain.Scalar("Home school"), d.Chat().engine.Draft().Value(domain.FieldCurriculum))
}

func TestTUI_AutoAdvance(t *testing.T) {
	app, _ := testApp(t)
	app.AutoAdvance = 50 * time.Millisecond
	d := NewTestDriver(t, app, studentFlags)
	toCurriculum(d)

	d.Pick("Option B")
	assert.Equal(t, 2, d.Chat().engine.Cursor(), "timer has not fired yet")
	d.FireAutoAdvance()
	assert.Equal(t, 3, d.Chat().engine.Cursor())

	d.Pick("Option A")
	stale := d.Chat().engine.SelectionVersion()
	d.Pick("Option C")
	d.Send(autoAdvanceMsg{version: stale})
	assert.Equal(t, 3, d.Chat().engine.Cursor(), "stale timer must not advance")

	d.FireAutoAdvance()
	assert.Equal(t, 4, d.Chat().engine.Cursor())
	assert.Equal(t, domain.Scalar("Option C"), d.Chat().engine.Draft().Value(domain.FieldGrade))

	d.Pick("Option A")
	d.FireAutoAdvance()
	assert.Equal(t, 4, d.Chat().engine.Cursor(), "multi-select never auto-advances")
}

func TestTUI_AutoAdvanceSkipsOthers(t *testing.T) {
	app, _ := testApp(t)
	app.AutoAdvance = 50 * time.Millisecond
	d := NewTestDriver(t, app, studentFlags)
	toCurriculum(d)

	d.Pick(onboarding.OthersOption)
	d.FireAutoAdvance()
	assert.Equal(t, 2, d.Chat().engine.Cursor())
}

func TestTUI_RewindShowsCachedPrompt(t *testing.T) {
	app, f := testApp(t)
	d := NewTestDriver(t, app, studentFlags)
	toCurriculum(d)
	d.PressEnter()
	d.RequireContains("What grade are you in?")
	fetched := len(f.Options.Calls())

	d.PressCtrlB()
	d.RequireContains("Going back to Curriculum")
	assert.Equal(t, 2, d.Chat().engine.Cursor())
	assert.Len(t, f.Options.Calls(), fetched, "cached options are reused")

	d.PressCtrlB()
	assert.Equal(t, 1, d.Chat().engine.Cursor())

	d.PressCtrlB()
	d.RequireContains("This is the first question.")
	assert.Equal(t, 1, d.Chat().engine.Cursor())
}

func TestTUI_SaveFailureStillCompletes(t *testing.T) {
	app, f := testApp(t)
	f.Gateway.SaveErr = testutil.ErrFake
	d := NewTestDriver(t, app, studentFlags)
	toCurriculum(d)

	answerRemaining(d)

	d.RequireContains("Your student profile is complete.")
	d.RequireContains("Your profile could not be saved: fake backend failure")
	assert.NotContains(t, d.View(), "Continue at")
	assert.Equal(t, 1, f.Gateway.SaveCount())

	list, err := app.Completions.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Saved)

	d.PressEnter()
	assert.True(t, d.Quitting)
}

func TestTUI_MissingIdentityShowsForm(t *testing.T) {
	app, f := testApp(t)
	d := NewTestDriver(t, app, session.Source{})

	d.RequireView(ViewIdentity)
	d.RequireContains("User ID")

	id := domain.Identity{UserID: "m1", UserType: domain.UserTypeTeacher}
	d.Send(rememberIdentityCmd(d.State(), id)())

	d.RequireView(ViewChat)
	require.Len(t, f.Gateway.Starts, 1)
	assert.Equal(t, "m1", f.Gateway.Starts[0].UserID)
	assert.Equal(t, session.OriginManual, d.State().Origin)

	stored, err := app.Session.Stored(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id.UserID, stored.UserID)
}

func TestTUI_InvalidUserTypeAsksAgain(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, session.Source{UserID: "u1", UserType: "admin"})

	d.RequireView(ViewIdentity)
	d.RequireContains("invalid user type")
}

func TestTUI_EscOnIdentityQuits(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, session.Source{})

	d.PressEsc()
	assert.True(t, d.Quitting)
}

func TestTUI_CtrlCQuits(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, studentFlags)

	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

func TestTUI_HeaderShowsIdentity(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app, studentFlags)

	d.RequireContains("onboard")
	d.RequireContains("u1")
	d.RequireContains("ctrl+c: quit")
}
