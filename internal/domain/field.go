package domain

// Field names a profile field. The value is the backend's JSON key.
type Field string

const (
	FieldName              Field = "name"
	FieldCountry           Field = "country"
	FieldGrade             Field = "grade"
	FieldCurriculum        Field = "selected_curriculum"
	FieldSubjects          Field = "selected_subjects"
	FieldLearningInterests Field = "selected_learning_interests"
	FieldLearningStyles    Field = "selected_learning_styles"
	FieldHelpPreferences   Field = "selected_help_preferences"
	FieldLearningGoals     Field = "selected_learning_goals"
	FieldGradeLevels       Field = "selected_grade_levels"
	FieldTeachingGoals     Field = "selected_teaching_goals"
	FieldTechComfort       Field = "selected_tech_comfort"
	FieldLessonPlan        Field = "selected_lesson_plan"
	FieldDeviceAccess      Field = "selected_device_access"
)

// FieldSpec describes how a field is labelled and persisted.
type FieldSpec struct {
	Field Field
	Label string
	Shape Shape
}

var fieldSpecs = map[Field]FieldSpec{
	FieldName:              {FieldName, "Name", ShapeScalar},
	FieldCountry:           {FieldCountry, "Country", ShapeScalar},
	FieldGrade:             {FieldGrade, "Grade", ShapeScalar},
	FieldCurriculum:        {FieldCurriculum, "Curriculum", ShapeScalar},
	FieldSubjects:          {FieldSubjects, "Subjects", ShapeList},
	FieldLearningInterests: {FieldLearningInterests, "Learning Interests", ShapeList},
	FieldLearningStyles:    {FieldLearningStyles, "Learning Styles", ShapeList},
	FieldHelpPreferences:   {FieldHelpPreferences, "Help Preferences", ShapeList},
	FieldLearningGoals:     {FieldLearningGoals, "Learning Goals", ShapeList},
	FieldGradeLevels:       {FieldGradeLevels, "Grade Levels", ShapeScalar},
	FieldTeachingGoals:     {FieldTeachingGoals, "Teaching Goals", ShapeList},
	FieldTechComfort:       {FieldTechComfort, "Tech Comfort", ShapeScalar},
	FieldLessonPlan:        {FieldLessonPlan, "Lesson Plan", ShapeScalar},
	FieldDeviceAccess:      {FieldDeviceAccess, "Device Access", ShapeScalar},
}

// studentFields and teacherFields list the profile fields in display order.
var (
	studentFields = []Field{
		FieldCountry, FieldGrade, FieldCurriculum, FieldSubjects,
		FieldLearningInterests, FieldLearningStyles, FieldHelpPreferences, FieldLearningGoals,
	}
	teacherFields = []Field{
		FieldCountry, FieldGradeLevels, FieldCurriculum, FieldSubjects,
		FieldTeachingGoals, FieldTechComfort, FieldLessonPlan, FieldDeviceAccess,
	}
)

// Spec returns the catalog entry for f. Unknown fields are scalar and
// labelled with their key.
func (f Field) Spec() FieldSpec {
	if s, ok := fieldSpecs[f]; ok {
		return s
	}
	return FieldSpec{Field: f, Label: string(f), Shape: ShapeScalar}
}

func (f Field) Label() string { return f.Spec().Label }
func (f Field) Shape() Shape  { return f.Spec().Shape }

// ProfileFields returns the answer fields collected for t, in display order.
func ProfileFields(t UserType) []Field {
	switch t {
	case UserTypeStudent:
		return append([]Field(nil), studentFields...)
	case UserTypeTeacher:
		return append([]Field(nil), teacherFields...)
	default:
		return nil
	}
}
