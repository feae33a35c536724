package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/repository"
)

func studentProfile() *domain.Profile {
	return &domain.Profile{
		Name:     "Asha",
		UserType: domain.UserTypeStudent,
		Values: map[domain.Field]domain.Choice{
			domain.FieldCountry:  domain.Scalar("India"),
			domain.FieldSubjects: domain.List("Math", "Physics"),
		},
	}
}

func TestFormatProfile(t *testing.T) {
	got := stripANSI(FormatProfile(studentProfile(), domain.UserTypeStudent))
	assert.Contains(t, got, "STUDENT PROFILE")
	assert.Contains(t, got, "Asha")
	assert.Contains(t, got, "India")
	assert.Contains(t, got, "Math, Physics")
	assert.Contains(t, got, "Learning Goals")
	assert.NotContains(t, got, "Teaching Goals")
}

func TestFormatProfile_Nil(t *testing.T) {
	assert.Equal(t, "No profile found.", stripANSI(FormatProfile(nil, domain.UserTypeStudent)))
}

func TestFormatStatus(t *testing.T) {
	id := domain.Identity{UserID: "u1", UserType: domain.UserTypeStudent}

	got := stripANSI(FormatStatus(id, &domain.Status{HasData: true, Profile: studentProfile()}))
	assert.Contains(t, got, "In progress")
	assert.Contains(t, got, "2 of 8 answered")

	got = stripANSI(FormatStatus(id, &domain.Status{}))
	assert.Contains(t, got, "Not started")
	assert.NotContains(t, got, "answered")
}

func TestFormatSteps(t *testing.T) {
	table, err := onboarding.TableFor(domain.UserTypeTeacher)
	require.NoError(t, err)
	got := stripANSI(FormatSteps(table))
	assert.Contains(t, got, "TEACHER STEPS")
	assert.Contains(t, got, string(domain.FieldGradeLevels))
	assert.Contains(t, got, string(onboarding.QueryDeviceAccess))
}

func TestFormatCompletions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "No local completions recorded.", stripANSI(FormatCompletions(nil, now)))

	got := stripANSI(FormatCompletions([]*repository.Completion{
		{ID: "1234567890", UserType: domain.UserTypeTeacher, Saved: false, Error: "backend down", CompletedAt: now.Add(-2 * time.Minute)},
	}, now))
	assert.Contains(t, got, "12345678")
	assert.Contains(t, got, "Not saved")
	assert.Contains(t, got, "2m ago")
	assert.Contains(t, got, "backend down")
}
