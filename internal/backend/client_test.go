package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
)

func testClient(t *testing.T, h http.HandlerFunc, obs Observer) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	return NewClient(cfg, obs)
}

var student = domain.Identity{UserID: "u1", UserType: domain.UserTypeStudent}

func TestClient_Options_PostsParams(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/onboarding/student/learning-interests/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "India", body["country"])
		assert.Equal(t, []any{"Math"}, body["subjects"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"options":["Robotics","Space"]}`))
	}, nil)

	opts, err := client.Options(context.Background(), onboarding.OptionQuery{
		Kind: onboarding.QueryLearningInterests,
		Params: map[string]domain.Choice{
			"country":  domain.Scalar("India"),
			"subjects": domain.List("Math"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Robotics", "Space"}, opts)
}

func TestClient_Options_EveryQueryHasEndpoint(t *testing.T) {
	for _, ut := range []domain.UserType{domain.UserTypeStudent, domain.UserTypeTeacher} {
		table, err := onboarding.TableFor(ut)
		require.NoError(t, err)
		for _, s := range table.Steps {
			if s.Source == nil {
				continue
			}
			_, ok := optionPaths[s.Source.Query]
			assert.True(t, ok, "no endpoint for %s", s.Source.Query)
		}
	}
}

func TestClient_Options_UnknownQuery(t *testing.T) {
	client := NewClient(DefaultConfig(), nil)
	_, err := client.Options(context.Background(), onboarding.OptionQuery{Kind: "nope"})
	assert.ErrorIs(t, err, ErrUnknownQuery)
}

func TestClient_Options_ServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"curricula unavailable"}`))
	}, nil)

	_, err := client.Options(context.Background(), onboarding.OptionQuery{Kind: onboarding.QueryStudentCurricula})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "curricula unavailable", apiErr.Error())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.TimeoutMs = 50
	client := NewClient(cfg, nil)

	_, err := client.Options(context.Background(), onboarding.OptionQuery{Kind: onboarding.QueryStudentGrades})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_CancelledIsNotTimeout(t *testing.T) {
	obs := &captureObserver{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[]}`))
	}, obs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Options(ctx, onboarding.OptionQuery{Kind: onboarding.QueryStudentGrades})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "CANCELED", obs.events[0].ErrorCode)
}

func TestClient_Unavailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	client := NewClient(cfg, nil)

	_, err := client.Status(context.Background(), student)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_SaveComplete_SendsPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/onboarding/save/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, "student", body["user_type"])
		assert.Equal(t, true, body["completed"])
		assert.Equal(t, []any{"Visual"}, body["selected_learning_styles"])
		w.Write([]byte(`{"success":true,"message":"saved","user_type":"student"}`))
	}, nil)

	d := domain.NewDraft(domain.UserTypeStudent)
	d.Name = "Asha"
	d.Set(domain.FieldLearningStyles, domain.Scalar("Visual"))
	err := client.SaveComplete(context.Background(), onboarding.SaveRequest{Identity: student, Draft: d})
	require.NoError(t, err)
}

func TestClient_SaveComplete_ValidationErrors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid data","validation_errors":{"grade":["This field is required."],"country":"Unknown"}}`))
	}, nil)

	err := client.SaveComplete(context.Background(), onboarding.SaveRequest{
		Identity: student,
		Draft:    domain.NewDraft(domain.UserTypeStudent),
	})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "This field is required.", vErr.Fields["grade"])
	assert.Equal(t, "Invalid data - validation errors: country: Unknown; grade: This field is required.", vErr.Error())
	assert.ErrorIs(t, err, ErrStatus)
}

func TestClient_SaveComplete_MissingIdentity(t *testing.T) {
	client := NewClient(DefaultConfig(), nil)
	err := client.SaveComplete(context.Background(), onboarding.SaveRequest{
		Identity: domain.Identity{UserType: domain.UserTypeStudent},
		Draft:    domain.NewDraft(domain.UserTypeStudent),
	})
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestClient_Status_DecodesProfile(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/accounts/onboarding/status/", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "student", r.URL.Query().Get("user_type"))
		w.Write([]byte(`{"success":true,"data":{
			"user_id":"u1","user_type":"student","completed":false,"has_data":true,
			"profile":{"name":"Asha","country":"India","selected_subjects":"Math"}
		}}`))
	}, nil)

	st, err := client.Status(context.Background(), student)
	require.NoError(t, err)
	assert.True(t, st.HasData)
	assert.False(t, st.Completed)
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Asha", st.Profile.Name)
	assert.Equal(t, []string{"Math"}, st.Profile.Value(domain.FieldSubjects).Values())

	entry := onboarding.Classify(st)
	assert.Equal(t, onboarding.EntryResume, entry.Kind)
}

func TestClient_Status_UnsuccessfulEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"detail":"no such user"}`))
	}, nil)

	_, err := client.Status(context.Background(), student)
	assert.ErrorIs(t, err, ErrStatus)
	assert.EqualError(t, err, "no such user")
}

func TestClient_Start(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/start-onboarding/", r.URL.Path)
		assert.Equal(t, "teacher", r.URL.Query().Get("user_type"))
		w.Write([]byte(`{"success":true,"data":{"user_id":"t1","user_type":"teacher","onboarding_status":"started"}}`))
	}, nil)

	res, err := client.Start(context.Background(), domain.Identity{UserID: "t1", UserType: domain.UserTypeTeacher})
	require.NoError(t, err)
	assert.Equal(t, "started", res.OnboardingStatus)
	assert.Equal(t, domain.UserTypeTeacher, res.UserType)
}

func TestClient_Start_Rejected(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"User not found"}`))
	}, nil)

	_, err := client.Start(context.Background(), student)
	assert.EqualError(t, err, "User not found")
}

type captureObserver struct{ events []CallEvent }

func (c *captureObserver) OnCallComplete(e CallEvent) { c.events = append(c.events, e) }

func TestClient_ObserverCalled(t *testing.T) {
	obs := &captureObserver{}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"options":[]}`))
	}, obs)
	client.newID = func() string { return "req-1" }

	_, err := client.Options(context.Background(), onboarding.OptionQuery{Kind: onboarding.QueryDeviceAccess})
	require.NoError(t, err)

	require.Len(t, obs.events, 1)
	e := obs.events[0]
	assert.True(t, e.Success)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, string(onboarding.QueryDeviceAccess), e.Operation)
	assert.Equal(t, http.StatusOK, e.StatusCode)
}
