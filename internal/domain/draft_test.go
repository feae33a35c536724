package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SetNormalisesToFieldShape(t *testing.T) {
	d := NewDraft(UserTypeTeacher)

	d.Set(FieldGradeLevels, List("Primary", "Secondary"))
	d.Set(FieldSubjects, Scalar("Math"))

	grade, ok := d.Get(FieldGradeLevels)
	require.True(t, ok)
	assert.False(t, grade.IsList())
	assert.Equal(t, "Primary,Secondary", grade.String())

	subjects, ok := d.Get(FieldSubjects)
	require.True(t, ok)
	assert.True(t, subjects.IsList())
	assert.Equal(t, []string{"Math"}, subjects.Values())
}

func TestDraft_SetEmptyRemovesField(t *testing.T) {
	d := NewDraft(UserTypeStudent)
	d.Set(FieldCountry, Scalar("India"))
	require.True(t, d.Has(FieldCountry))

	d.Set(FieldCountry, Scalar(" "))
	assert.False(t, d.Has(FieldCountry))
}

func TestDraft_FieldsInDisplayOrder(t *testing.T) {
	d := NewDraft(UserTypeStudent)
	d.Set(FieldSubjects, List("Math"))
	d.Set(FieldCountry, Scalar("India"))
	d.Set(FieldCurriculum, Scalar("CBSE"))

	assert.Equal(t, []Field{FieldCountry, FieldCurriculum, FieldSubjects}, d.Fields())
}

func TestDraft_PayloadIncludesIdentityAndCompleted(t *testing.T) {
	d := NewDraft(UserTypeStudent)
	d.Name = "Asha"
	d.Set(FieldCountry, Scalar("India"))
	d.Set(FieldLearningGoals, List("Improve grades"))

	data, err := json.Marshal(d.Payload(Identity{UserID: "u1", UserType: UserTypeStudent}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "Asha",
		"country": "India",
		"selected_learning_goals": ["Improve grades"],
		"user_id": "u1",
		"user_type": "student",
		"completed": true
	}`, string(data))
}

func TestDraft_SeedFromProfileKeepsOwnFieldsOnly(t *testing.T) {
	p := &Profile{
		Name: "Asha",
		Values: map[Field]Choice{
			FieldCountry:      Scalar("India"),
			FieldTeachingGoals: List("Engagement"),
		},
	}
	d := NewDraft(UserTypeStudent)
	d.Seed(p)

	assert.Equal(t, "Asha", d.Name)
	assert.True(t, d.Has(FieldCountry))
	assert.False(t, d.Has(FieldTeachingGoals))
}

func TestDraft_CloneIsIndependent(t *testing.T) {
	d := NewDraft(UserTypeStudent)
	d.Set(FieldCountry, Scalar("India"))
	c := d.Clone()
	c.Set(FieldCountry, Scalar("Kenya"))

	assert.Equal(t, "India", d.Value(FieldCountry).String())
	assert.Equal(t, "Kenya", c.Value(FieldCountry).String())
}

func TestProfile_UnmarshalNormalisesFields(t *testing.T) {
	raw := `{
		"id": "p1",
		"user_id": "u1",
		"name": "Mr K",
		"country": "Kenya",
		"selected_grade_levels": ["Primary", "Junior"],
		"selected_subjects": "Math",
		"selected_device_access": "Shared",
		"completed": true,
		"created_at": "2025-01-02T03:04:05Z"
	}`
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Mr K", p.Name)
	assert.True(t, p.Completed)
	assert.Equal(t, 2025, p.CreatedAt.Year())
	assert.Equal(t, "Primary,Junior", p.Value(FieldGradeLevels).String())
	assert.True(t, p.Value(FieldSubjects).IsList())
	assert.Equal(t, []Field{FieldCountry, FieldGradeLevels, FieldSubjects, FieldDeviceAccess},
		p.AnsweredFields(UserTypeTeacher))
}

func TestParseUserType(t *testing.T) {
	ut, err := ParseUserType(" Teacher ")
	require.NoError(t, err)
	assert.Equal(t, UserTypeTeacher, ut)
	assert.Equal(t, "Teacher", ut.Label())

	_, err = ParseUserType("admin")
	assert.Error(t, err)
}
