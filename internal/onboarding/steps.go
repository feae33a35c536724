package onboarding

import (
	"fmt"

	"github.com/alexanderramin/onboard/internal/domain"
)

// InputMode is how a step's question is answered.
type InputMode int

const (
	ModeText InputMode = iota
	ModeSingle
	ModeMulti
)

func (m InputMode) String() string {
	switch m {
	case ModeSingle:
		return "single-select"
	case ModeMulti:
		return "multi-select"
	default:
		return "text"
	}
}

// Query names one Option Provider operation.
type Query string

const (
	QueryStudentCurricula  Query = "student.curricula"
	QueryStudentGrades     Query = "student.grades"
	QueryStudentSubjects   Query = "student.subjects"
	QueryLearningInterests Query = "student.learning_interests"
	QueryLearningStyles    Query = "student.learning_styles"
	QueryHelpPreferences   Query = "student.help_preferences"
	QueryLearningGoals     Query = "student.learning_goals"

	QueryTeacherCurricula Query = "teacher.curricula"
	QueryTeacherGrades    Query = "teacher.grade_levels"
	QueryTeacherSubjects  Query = "teacher.subjects"
	QueryTeachingGoals    Query = "teacher.teaching_goals"
	QueryTechComfort      Query = "teacher.tech_comfort"
	QueryLessonPlans      Query = "teacher.lesson_plans"
	QueryDeviceAccess     Query = "teacher.device_access"
)

// Param binds a request parameter to the draft field it is read from.
type Param struct {
	Name  string
	Field domain.Field
}

// Source is the Option Provider call that supplies a step's options.
type Source struct {
	Query  Query
	Params []Param
}

// Step describes one data-collecting question.
type Step struct {
	Index    int
	Title    string
	Question string
	Mode     InputMode
	Field    domain.Field
	Loading  string
	Fallback string
	Source   *Source // nil for steps answered without options
}

// Table is the ordered step sequence for one user type.
type Table struct {
	UserType    domain.UserType
	Verb        string // "studying" or "teaching", used in the country question
	Steps       []Step
	DoneSaved   string
	DoneUnsaved string
}

// TotalSteps counts the name gate plus every data step.
func (t *Table) TotalSteps() int { return len(t.Steps) + 1 }

// LastStep is the index of the final data step.
func (t *Table) LastStep() int { return len(t.Steps) }

// Step returns the descriptor at the 1-based index i.
func (t *Table) Step(i int) (Step, bool) {
	if i < 1 || i > len(t.Steps) {
		return Step{}, false
	}
	return t.Steps[i-1], true
}

// Question renders the question for step i. The first step's question
// embeds the user-type verb.
func (t *Table) Question(i int) string {
	s, ok := t.Step(i)
	if !ok {
		return ""
	}
	if i == 1 {
		return fmt.Sprintf(s.Question, t.Verb)
	}
	return s.Question
}

// Title returns the progress title for step i.
func (t *Table) Title(i int) string {
	if s, ok := t.Step(i); ok {
		return s.Title
	}
	return "Unknown Step"
}

// TableFor returns the step table for t.
func TableFor(t domain.UserType) (*Table, error) {
	switch t {
	case domain.UserTypeStudent:
		return studentTable(), nil
	case domain.UserTypeTeacher:
		return teacherTable(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoUserType, t)
	}
}

var (
	pCountry     = Param{"country", domain.FieldCountry}
	pCurriculum  = Param{"curriculum", domain.FieldCurriculum}
	pGrade       = Param{"grade", domain.FieldGrade}
	pSubjects    = Param{"subjects", domain.FieldSubjects}
	pGradeLevels = Param{"grade_levels", domain.FieldGradeLevels}
	pTechComfort = Param{"tech_comfort", domain.FieldTechComfort}
)

const countryQuestion = "Which country are you %s in?"

func studentTable() *Table {
	studentContext := []Param{pGrade, pCurriculum, pCountry, pSubjects}
	return &Table{
		UserType: domain.UserTypeStudent,
		Verb:     "studying",
		Steps: []Step{
			{
				Index: 1, Title: "Country", Question: countryQuestion,
				Mode: ModeText, Field: domain.FieldCountry,
			},
			{
				Index: 2, Title: "Curriculum", Question: "Which curriculum are you following?",
				Mode: ModeSingle, Field: domain.FieldCurriculum,
				Loading:  "Loading curriculum options...",
				Fallback: "I couldn't fetch curriculum options. Please try again.",
				Source:   &Source{QueryStudentCurricula, []Param{pCountry}},
			},
			{
				Index: 3, Title: "Grade", Question: "What grade are you in?",
				Mode: ModeSingle, Field: domain.FieldGrade,
				Loading:  "Loading grade options...",
				Fallback: "I couldn't fetch grade options. Please try again.",
				Source:   &Source{QueryStudentGrades, []Param{pCurriculum}},
			},
			{
				Index: 4, Title: "Subjects", Question: "Which subjects are you studying? (You can select multiple)",
				Mode: ModeMulti, Field: domain.FieldSubjects,
				Loading:  "Loading subjects for your curriculum...",
				Fallback: "I couldn't fetch subjects. Please try again.",
				Source:   &Source{QueryStudentSubjects, []Param{pCountry, pCurriculum, pGrade}},
			},
			{
				Index: 5, Title: "Learning Interests", Question: "What are your learning interests? (Select multiple if you like)",
				Mode: ModeMulti, Field: domain.FieldLearningInterests,
				Loading:  "Getting learning interests for you...",
				Fallback: "I couldn't fetch learning interests. Please try again.",
				Source:   &Source{QueryLearningInterests, studentContext},
			},
			{
				Index: 6, Title: "Learning Styles", Question: "What's your preferred learning style?",
				Mode: ModeSingle, Field: domain.FieldLearningStyles,
				Loading:  "Finding learning styles that suit you...",
				Fallback: "I couldn't fetch learning styles. Please try again.",
				Source:   &Source{QueryLearningStyles, studentContext},
			},
			{
				Index: 7, Title: "Help Preferences", Question: "How do you prefer to get help when you're stuck?",
				Mode: ModeSingle, Field: domain.FieldHelpPreferences,
				Loading:  "Getting help preference options...",
				Fallback: "I couldn't fetch help preferences. Please try again.",
				Source:   &Source{QueryHelpPreferences, studentContext},
			},
			{
				Index: 8, Title: "Learning Goals", Question: "What are your main learning goals? (Select multiple)",
				Mode: ModeMulti, Field: domain.FieldLearningGoals,
				Loading:  "Almost done! Getting learning goals...",
				Fallback: "I couldn't fetch learning goals. Please try again.",
				Source:   &Source{QueryLearningGoals, studentContext},
			},
		},
		DoneSaved:   "🎉 Fantastic! Your student profile is complete and saved. Here's your personalized learning profile:",
		DoneUnsaved: "🎉 Fantastic! Your student profile is complete. Here's your personalized learning profile:",
	}
}

func teacherTable() *Table {
	return &Table{
		UserType: domain.UserTypeTeacher,
		Verb:     "teaching",
		Steps: []Step{
			{
				Index: 1, Title: "Country", Question: countryQuestion,
				Mode: ModeText, Field: domain.FieldCountry,
			},
			{
				Index: 2, Title: "Curriculum", Question: "Which curriculum do you follow?",
				Mode: ModeSingle, Field: domain.FieldCurriculum,
				Loading:  "Loading curriculum options...",
				Fallback: "I couldn't fetch curricula. Please try again.",
				Source:   &Source{QueryTeacherCurricula, []Param{pCountry, pGradeLevels}},
			},
			{
				Index: 3, Title: "Grade Levels", Question: "Which grade levels do you teach?",
				Mode: ModeSingle, Field: domain.FieldGradeLevels,
				Loading:  "Loading grade level options...",
				Fallback: "I couldn't fetch grade levels. Please try again.",
				Source:   &Source{QueryTeacherGrades, []Param{pCountry}},
			},
			{
				Index: 4, Title: "Subjects", Question: "Which subjects do you teach? (Select multiple)",
				Mode: ModeMulti, Field: domain.FieldSubjects,
				Loading:  "Getting subject options...",
				Fallback: "I couldn't fetch subjects. Please try again.",
				Source:   &Source{QueryTeacherSubjects, []Param{pCountry, pCurriculum, pGradeLevels}},
			},
			{
				Index: 5, Title: "Teaching Goals", Question: "What are your main teaching goals? (Select multiple)",
				Mode: ModeMulti, Field: domain.FieldTeachingGoals,
				Loading:  "Loading teaching goals...",
				Fallback: "I couldn't fetch teaching goals. Please try again.",
				Source:   &Source{QueryTeachingGoals, []Param{pCountry, pCurriculum, pGradeLevels, pSubjects}},
			},
			{
				Index: 6, Title: "Tech Comfort", Question: "How comfortable are you with technology?",
				Mode: ModeSingle, Field: domain.FieldTechComfort,
				Loading:  "Getting tech comfort options...",
				Fallback: "I couldn't fetch tech comfort options. Please try again.",
				Source:   &Source{QueryTechComfort, []Param{pCountry, pGradeLevels}},
			},
			{
				Index: 7, Title: "Lesson Plans", Question: "What are your lesson plan preferences?",
				Mode: ModeSingle, Field: domain.FieldLessonPlan,
				Loading:  "Loading lesson plan preferences...",
				Fallback: "I couldn't fetch lesson plan preferences. Please try again.",
				Source:   &Source{QueryLessonPlans, []Param{pCountry, pCurriculum, pSubjects, pTechComfort}},
			},
			{
				Index: 8, Title: "Device Access", Question: "What kind of device access do your students have?",
				Mode: ModeSingle, Field: domain.FieldDeviceAccess,
				Loading:  "Getting device access options...",
				Fallback: "I couldn't fetch device access options. Please try again.",
				Source:   &Source{QueryDeviceAccess, []Param{pCountry, pGradeLevels}},
			},
		},
		DoneSaved:   "🎉 Perfect! Your teacher profile is complete and saved. Here's your personalized teaching profile:",
		DoneUnsaved: "🎉 Perfect! Your teacher profile is complete. Here's your personalized teaching profile:",
	}
}
