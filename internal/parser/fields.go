package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

const (
	MessageInvalidIndex = "Index is not a non-zero unsigned integer."

	MessageInvalidDateTimeFormat = "Invalid datetime format. Please use one of the following supported formats:\n" +
		"  • dd/MM/yyyy HH:mm  (e.g. 22/10/2025 15:30)\n" +
		"  • dd-MM-yyyy HH:mm  (e.g. 22-10-2025 15:30)\n" +
		"  • yyyy-MM-dd HH:mm  (e.g. 2025-10-22 15:30)\n" +
		"  • yyyy/MM/dd HH:mm  (e.g. 2025/10/22 15:30)"
	MessageInvalidDate        = "Invalid date value. Please ensure the date exists (e.g. 29 Feb only in leap years)."
	MessageConsultationInPast = "Consultation time cannot be before the current date and time."
)

// dateTimeLayout pairs a Go layout with the shape it must match before the
// calendar is checked.
type dateTimeLayout struct {
	layout string
	shape  *regexp.Regexp
}

var dateTimeLayouts = []dateTimeLayout{
	{layout: "02/01/2006 15:04", shape: regexp.MustCompile(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`)},
	{layout: "02-01-2006 15:04", shape: regexp.MustCompile(`^\d{2}-\d{2}-\d{4} \d{2}:\d{2}$`)},
	{layout: "2006-01-02 15:04", shape: regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)},
	{layout: "2006/01/02 15:04", shape: regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}$`)},
}

func validationError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

// ParseIndex parses a 1-based list index.
func ParseIndex(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.TrimLeft(trimmed, "0123456789") != "" {
		return 0, validationError(MessageInvalidIndex)
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n == 0 {
		return 0, validationError(MessageInvalidIndex)
	}
	return n, nil
}

func ParseName(raw string) (models.Name, error) {
	return models.NewName(strings.TrimSpace(raw))
}

func ParseEmail(raw string) (models.Email, error) {
	return models.NewEmail(strings.TrimSpace(raw))
}

func ParsePhone(raw string) (models.Phone, error) {
	return models.NewPhone(strings.TrimSpace(raw))
}

func ParseAddress(raw string) (models.Address, error) {
	return models.NewAddress(strings.TrimSpace(raw))
}

// ParseStudentID trims and upper-cases raw before validating it.
func ParseStudentID(raw string) (models.StudentID, error) {
	return models.NewStudentID(strings.ToUpper(strings.TrimSpace(raw)))
}

func ParseModuleCode(raw string) (models.ModuleCode, error) {
	return models.NewModuleCode(strings.TrimSpace(raw))
}

func ParseModuleCodes(raws []string) ([]models.ModuleCode, error) {
	codes := make([]models.ModuleCode, 0, len(raws))
	for _, raw := range raws {
		code, err := ParseModuleCode(raw)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func ParseTag(raw string) (models.Tag, error) {
	return models.NewTag(strings.TrimSpace(raw))
}

func ParseTags(raws []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(raws))
	for _, raw := range raws {
		tag, err := ParseTag(raw)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func ParseRemark(raw string) (models.Remark, error) {
	return models.NewRemark(strings.TrimSpace(raw))
}

func ParseWeek(raw string) (models.Week, error) {
	return models.ParseWeek(strings.TrimSpace(raw))
}

func ParseAttendanceStatus(raw string) (models.AttendanceStatus, error) {
	return models.ParseAttendanceStatus(strings.TrimSpace(raw))
}

// ParseConsultation tries each accepted layout in order. A value that has
// the right shape but names a date that does not exist is reported
// separately from an unrecognised format. The result must lie strictly
// after now.
func ParseConsultation(raw string, now time.Time) (models.Consultation, error) {
	trimmed := strings.TrimSpace(raw)
	for _, l := range dateTimeLayouts {
		if !l.shape.MatchString(trimmed) {
			continue
		}
		at, err := time.ParseInLocation(l.layout, trimmed, now.Location())
		if err != nil {
			return models.Consultation{}, validationError(MessageInvalidDate)
		}
		if !at.After(now) {
			return models.Consultation{}, validationError(MessageConsultationInPast)
		}
		return models.NewConsultation(at), nil
	}
	return models.Consultation{}, validationError(MessageInvalidDateTimeFormat)
}
