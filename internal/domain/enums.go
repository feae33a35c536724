package domain

import (
	"fmt"
	"strings"
)

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
)

// ParseUserType accepts "student" or "teacher" in any case.
func ParseUserType(s string) (UserType, error) {
	switch UserType(strings.ToLower(strings.TrimSpace(s))) {
	case UserTypeStudent:
		return UserTypeStudent, nil
	case UserTypeTeacher:
		return UserTypeTeacher, nil
	default:
		return "", fmt.Errorf("invalid user type %q: want student or teacher", s)
	}
}

func (t UserType) Valid() bool {
	return t == UserTypeStudent || t == UserTypeTeacher
}

// Label returns the capitalized user type ("Student", "Teacher").
func (t UserType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Shape is the persisted form of a profile field.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeList
)

func (s Shape) String() string {
	if s == ShapeList {
		return "list"
	}
	return "scalar"
}
