package models

import "regexp"

const (
	MessageStudentIDConstraints  = "Student ID should be in the format AXXXXXXXY (e.g., A0123456X)"
	MessageModuleCodeConstraints = "Module code should be in NUS format (e.g., CS2103T)"
)

var (
	studentIDPattern  = regexp.MustCompile(`^A\d{7}[A-Z]$`)
	moduleCodePattern = regexp.MustCompile(`^[A-Z]{2,3}\d{4}[A-Z]?$`)
)

// StudentID identifies a student. It is the identity key of a Person when present.
type StudentID string

// NewStudentID validates raw as a StudentID. No case normalisation is applied.
func NewStudentID(raw string) (StudentID, error) {
	if !studentIDPattern.MatchString(raw) {
		return "", constraintError(MessageStudentIDConstraints)
	}
	return StudentID(raw), nil
}

func (s StudentID) String() string { return string(s) }

// ModuleCode is a course code such as CS2103T.
type ModuleCode string

// NewModuleCode validates raw as a ModuleCode.
func NewModuleCode(raw string) (ModuleCode, error) {
	if !moduleCodePattern.MatchString(raw) {
		return "", constraintError(MessageModuleCodeConstraints)
	}
	return ModuleCode(raw), nil
}

func (m ModuleCode) String() string { return string(m) }
