// Package command holds the validated commands TeachMate understands and the
// executor that applies them to a roster.
package command

import "github.com/noah-isme/teachmate/internal/models"

// Command is the closed set of parsed commands. Only types in this package
// implement it; Executor.Execute switches over every variant.
type Command interface {
	isCommand()
}

// Target addresses a person either by 1-based index into the displayed list
// or by student ID. All is only meaningful for attendance.
type Target struct {
	Index     int
	StudentID models.StudentID
	All       bool
}

// ByIndex reports whether the target uses a list index.
func (t Target) ByIndex() bool { return t.Index > 0 }

// Add inserts a new person.
type Add struct {
	Person models.Person
}

// Delete removes one person.
type Delete struct {
	Target Target
}

// AttendanceEntry is one week and the status to apply to it.
type AttendanceEntry struct {
	Week   models.Week
	Status models.AttendanceStatus
}

// EditDescriptor lists the fields to change. Nil pointers and nil slices are
// left untouched.
type EditDescriptor struct {
	Name          *models.Name
	Phone         *models.Phone
	Email         *models.Email
	Address       *models.Address
	StudentID     *models.StudentID
	ModuleCodes   []models.ModuleCode
	Tags          []models.Tag
	Consultations []models.Consultation
	Grades        []models.Grade
	Attendance    *AttendanceEntry
	Remark        *models.Remark
}

// IsAnyFieldEdited reports whether at least one field is set.
func (d EditDescriptor) IsAnyFieldEdited() bool {
	return d.Name != nil || d.Phone != nil || d.Email != nil || d.Address != nil ||
		d.StudentID != nil || d.ModuleCodes != nil || d.Tags != nil ||
		d.Consultations != nil || d.Grades != nil || d.Attendance != nil || d.Remark != nil
}

// Edit changes fields of the person at Index.
type Edit struct {
	Index      int
	Descriptor EditDescriptor
}

// Tag adds tags to a person.
type Tag struct {
	Target Target
	Tags   []models.Tag
}

// Untag removes tags from a person.
type Untag struct {
	Target Target
	Tags   []models.Tag
}

// Grade adds or overwrites grades of the person at Index.
type Grade struct {
	Index  int
	Grades []models.Grade
}

// DeleteGrade removes named grades from the person at Index.
type DeleteGrade struct {
	Index int
	Names []string
}

// Attendance marks or unmarks a week for one person or everyone.
type Attendance struct {
	Target Target
	Entry  AttendanceEntry
}

// Remark sets the remark of a student.
type Remark struct {
	StudentID models.StudentID
	Remark    models.Remark
}

// View narrows the list to one person and renders their details.
type View struct {
	Target Target
}

// List shows everyone, or only students enrolled in Module when it is set.
type List struct {
	Module models.ModuleCode
}

// Filter shows persons holding every tag in Tags.
type Filter struct {
	Tags []models.Tag
}

// Clear empties the roster.
type Clear struct{}

// Help shows the command summary.
type Help struct{}

// Exit ends the session.
type Exit struct{}

func (Add) isCommand()         {}
func (Delete) isCommand()      {}
func (Edit) isCommand()        {}
func (Tag) isCommand()         {}
func (Untag) isCommand()       {}
func (Grade) isCommand()       {}
func (DeleteGrade) isCommand() {}
func (Attendance) isCommand()  {}
func (Remark) isCommand()      {}
func (View) isCommand()        {}
func (List) isCommand()        {}
func (Filter) isCommand()      {}
func (Clear) isCommand()       {}
func (Help) isCommand()        {}
func (Exit) isCommand()        {}

// Result is the outcome of a successful execution.
type Result struct {
	Feedback string
	ShowHelp bool
	Exit     bool
	// Mutated is set when the roster content changed and should be saved.
	Mutated bool
}

// Word returns the command word that produces cmd.
func Word(cmd Command) string {
	switch cmd.(type) {
	case Add:
		return WordAdd
	case Delete:
		return WordDelete
	case Edit:
		return WordEdit
	case Tag:
		return WordTag
	case Untag:
		return WordUntag
	case Grade:
		return WordGrade
	case DeleteGrade:
		return WordDeleteGrade
	case Attendance:
		return WordAttendance
	case Remark:
		return WordRemark
	case View:
		return WordView
	case List:
		return WordList
	case Filter:
		return WordFilter
	case Clear:
		return WordClear
	case Help:
		return WordHelp
	case Exit:
		return WordExit
	default:
		return "unknown"
	}
}
