package parser

import (
	"strings"
	"unicode"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

const (
	MessageGradeFormat      = "Grade format should be ASSIGNMENT_NAME:SCORE (e.g., g/Midterm:85)"
	MessageWeekStatusFormat = "Attendance format should be WEEK STATUS (e.g., w/3 present)"
	MessageWeekColonFormat  = "Attendance format should be WEEK_NUMBER:STATUS (e.g., w/3:present)"
)

// CompoundError reports a malformed compound value such as NAME:SCORE.
// It unwraps to the user-facing error.
type CompoundError struct {
	Field string
	Input string
	Err   error
}

func (e *CompoundError) Error() string { return e.Err.Error() }

func (e *CompoundError) Unwrap() error { return e.Err }

func compoundError(field, input string, err error) error {
	return &CompoundError{Field: field, Input: input, Err: err}
}

// parseGradeEntry splits NAME:SCORE on the first colon and validates each half.
func parseGradeEntry(raw string) (models.Grade, error) {
	name, score, ok := strings.Cut(raw, ":")
	if !ok {
		return models.Grade{}, compoundError("grade", raw, appErrors.Clone(appErrors.ErrValidation, MessageGradeFormat))
	}
	grade, err := models.NewGrade(name, score)
	if err != nil {
		return models.Grade{}, compoundError("grade", raw, err)
	}
	return grade, nil
}

func parseGradeEntries(raws []string) ([]models.Grade, error) {
	grades := make([]models.Grade, 0, len(raws))
	for _, raw := range raws {
		g, err := parseGradeEntry(raw)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, nil
}

// parseWeekStatus splits "WEEK STATUS" on the first run of whitespace.
func parseWeekStatus(raw string) (command.AttendanceEntry, error) {
	trimmed := strings.TrimSpace(raw)
	i := strings.IndexFunc(trimmed, unicode.IsSpace)
	if i < 0 {
		return command.AttendanceEntry{}, compoundError("attendance", raw, appErrors.Clone(appErrors.ErrValidation, MessageWeekStatusFormat))
	}
	return buildWeekStatus(raw, trimmed[:i], trimmed[i:])
}

// parseWeekColonStatus splits "WEEK:STATUS" on the first colon. The
// whitespace form is accepted as well.
func parseWeekColonStatus(raw string) (command.AttendanceEntry, error) {
	week, status, ok := strings.Cut(raw, ":")
	if !ok {
		trimmed := strings.TrimSpace(raw)
		i := strings.IndexFunc(trimmed, unicode.IsSpace)
		if i < 0 {
			return command.AttendanceEntry{}, compoundError("attendance", raw, appErrors.Clone(appErrors.ErrValidation, MessageWeekColonFormat))
		}
		week, status = trimmed[:i], trimmed[i:]
	}
	return buildWeekStatus(raw, week, status)
}

func buildWeekStatus(raw, weekPart, statusPart string) (command.AttendanceEntry, error) {
	week, err := ParseWeek(weekPart)
	if err != nil {
		return command.AttendanceEntry{}, compoundError("attendance", raw, err)
	}
	status, err := ParseAttendanceStatus(statusPart)
	if err != nil {
		return command.AttendanceEntry{}, compoundError("attendance", raw, err)
	}
	return command.AttendanceEntry{Week: week, Status: status}, nil
}
