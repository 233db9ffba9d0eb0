package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/teachmate/internal/models"
)

// Command words.
const (
	WordAdd         = "add"
	WordDelete      = "delete"
	WordEdit        = "edit"
	WordTag         = "tag"
	WordUntag       = "untag"
	WordGrade       = "grade"
	WordDeleteGrade = "deletegrade"
	WordAttendance  = "attendance"
	WordRemark      = "remark"
	WordView        = "view"
	WordList        = "list"
	WordFilter      = "filter"
	WordClear       = "clear"
	WordHelp        = "help"
	WordExit        = "exit"
)

// Usage strings, embedded in format errors.
const (
	UsageAdd = WordAdd + ": Adds a student to TeachMate. " +
		"Parameters: n/NAME s/STUDENT_ID e/EMAIL m/MODULE_CODE [m/MORE_MODULES]... [t/TAG]... [c/CONSULTATION]...\n" +
		"Example: " + WordAdd + " n/John Doe s/A0123456X e/johnd@u.nus.edu m/CS2103T m/CS2101 t/friends"
	UsageDelete = WordDelete + ": Deletes the student identified by the index number or student ID.\n" +
		"Parameters: INDEX (must be a positive integer) or s/STUDENT_ID\n" +
		"Example: " + WordDelete + " 1 or " + WordDelete + " s/A0123456X"
	UsageEdit = WordEdit + ": Edits the details of the student identified by the index number used in the " +
		"displayed student list. Existing values will be overwritten by the input values.\n" +
		"Parameters: INDEX (must be a positive integer) [n/NAME] [p/PHONE] [e/EMAIL] [a/ADDRESS] [s/STUDENT_ID] " +
		"[m/MODULE_CODE]... [t/TAG]... [c/CONSULTATION]... [g/ASSIGNMENT_NAME:SCORE]... [w/WEEK:STATUS] [r/REMARK]\n" +
		"Example: " + WordEdit + " 1 e/johndoe@example.com g/Midterm:90 w/3:present"
	UsageTag = WordTag + ": Adds tags to the person identified by the index number used in the displayed " +
		"person list or by their student ID. The tags will be added to the existing tags.\n" +
		"Parameters: INDEX (must be a positive integer) or s/STUDENT_ID t/TAG...\n" +
		"Example: " + WordTag + " 1 t/Struggling t/Inactive\n" +
		"Example: " + WordTag + " s/A0291772W t/Excelling"
	UsageUntag = WordUntag + ": Removes tags from the person identified by the index number used in the displayed " +
		"person list or by their student ID. The specified tags will be removed from the existing tags.\n" +
		"Parameters: INDEX (must be a positive integer) or s/STUDENT_ID t/TAG...\n" +
		"Example: " + WordUntag + " 1 t/Struggling t/Inactive\n" +
		"Example: " + WordUntag + " s/A0291772W t/Struggling"
	UsageGrade = WordGrade + ": Adds or updates grades for the student identified by the index number used in the " +
		"displayed student list. If a grade for an assignment already exists (case-insensitive), it will be updated.\n" +
		"Parameters: INDEX (must be a positive integer) g/ASSIGNMENT_NAME:SCORE...\n" +
		"Note: SCORE must be a number between 0 and 100.\n" +
		"Example: " + WordGrade + " 1 g/Midterm:85 g/Assignment1:92"
	UsageDeleteGrade = WordDeleteGrade + ": Deletes specific grades from the student identified by the index " +
		"number used in the displayed person list.\n" +
		"Parameters: INDEX (must be a positive integer) g/ASSIGNMENT_NAME...\n" +
		"Example: " + WordDeleteGrade + " 1 g/Midterm g/Quiz1"
	UsageAttendance = WordAttendance + ": Marks attendance for a student identified by index or student ID, " +
		"or for all students.\n" +
		"Parameters: (INDEX | s/STUDENT_ID | all) w/WEEK present|absent|unmark\n" +
		"Example: " + WordAttendance + " s/A0123456X w/1 present OR " + WordAttendance + " all w/1 absent"
	UsageRemark = WordRemark + ": Adds or edits a remark for the student identified by their student ID. " +
		"Existing remark will be overwritten.\n" +
		"Parameters: s/STUDENT_ID r/REMARK\n" +
		"Example: " + WordRemark + " s/A0123456X r/Needs help with OOP concepts"
	UsageView = WordView + ": Views the details of the student identified by the index number used in the " +
		"displayed student list or by their student ID.\n" +
		"Parameters: INDEX (must be a positive integer) or s/STUDENT_ID\n" +
		"Example: " + WordView + " 1 or " + WordView + " s/A0123456X"
	UsageList = WordList + ": Lists all students or filtered by module.\n" +
		"Format: " + WordList + " [m/MODULE_CODE]"
	UsageFilter = WordFilter + ": Lists students holding all of the given tags.\n" +
		"Parameters: t/TAG [t/MORE_TAGS]...\n" +
		"Example: " + WordFilter + " t/friends t/owesMoney"
	UsageClear = "Clear command should not have any arguments.\nUsage: " + WordClear
	UsageHelp  = WordHelp + ": Shows program usage instructions.\nExample: " + WordHelp
	UsageExit  = WordExit + ": Exits the program.\nExample: " + WordExit
)

// User-facing messages.
const (
	MessageInvalidFormat    = "Invalid command format!\n%s"
	MessageUnknownCommand   = "Unknown command"
	MessageInvalidIndex     = "The student index provided is invalid."
	MessagePersonsListed    = "✓ %d students listed."
	MessageConflictingParam = "Conflicting parameters detected. Please use either index or student ID, not both."

	MessageAddSuccess   = "✓ Added student: %s"
	MessageDuplicateAdd = "Cannot add student: A student with ID %s already exists in TeachMate."

	MessageDeleteSuccess  = "✓ Deleted student: %s"
	MessageDeleteNotFound = "No student found with student ID %s. Use 'list' to see all students."

	MessageEditSuccess    = "✓ Updated student: %s"
	MessageNotEdited      = "At least one field to edit must be provided."
	MessageDuplicateEdit  = "Cannot edit student: A student with ID %s already exists in TeachMate."
	MessageGradeNotFound  = "Grade not found for assignment: %s"
	MessageNotStudent     = "The person at the specified index is not a student. Grades can only be managed for students."
	MessageTagSuccess     = "Added tags to Person: %s"
	MessageUntagSuccess   = "Removed tags from Person: %s"
	MessageNoTags         = "At least one tag must be provided."
	MessageTagNotFound    = "No person found with student ID: %s"
	MessageMissingTags    = "Some tags do not exist on this person: %s"
	MessageGradeAdded     = "✓ Added %s to %s:\n%s"
	MessageGradeUpdated   = "✓ Updated %s for %s:\n%s"
	MessageGradeMixed     = "✓ Added %s and updated %s for %s:\n%s"
	MessageDeleteGrade    = "Deleted grades from Student: %s"
	MessageMarkSuccess    = "Marked attendance for %s: %s - %s"
	MessageUnmarkSuccess  = "Unmarked attendance for %s: %s"
	MessageMarkAllSuccess = "Marked attendance for all students: %s - %s (%d students)"
	MessageUnmarkAll      = "Unmarked attendance for all students: %s (%d students)"
	MessageStudentMissing = "No student found with ID: %s"
	MessageRemarkSuccess  = "Added remark to Student: %s"
	MessageRemarkNotFound = "No student found with student ID: %s"
	MessageListAll        = "Listed all students"
	MessageListModule     = "Listed all students in module: %s"
	MessageListModuleNone = "No students found in this module: %s"
	MessageClearSuccess   = "TeachMate has been cleared!"
	MessageHelp           = "Opened help window."
	MessageExit           = "Exiting TeachMate as requested ..."
)

// HelpText lists every usage string.
func HelpText() string {
	usages := []string{UsageAdd, UsageDelete, UsageEdit, UsageTag, UsageUntag, UsageGrade, UsageDeleteGrade,
		UsageAttendance, UsageRemark, UsageView, UsageList, UsageFilter, "clear: Deletes all students.", UsageHelp, UsageExit}
	return strings.Join(usages, "\n\n")
}

// formatCount renders "1 grade" or "3 grades".
func formatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func bullet(item string) string {
	return "  • " + item
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = bullet(item)
	}
	return strings.Join(lines, "\n")
}

// formatGrades renders grades as bullets ordered by name, ignoring case.
func formatGrades(grades []models.Grade) string {
	sorted := append([]models.Grade(nil), grades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].AssignmentName) < strings.ToLower(sorted[j].AssignmentName)
	})
	items := make([]string, len(sorted))
	for i, g := range sorted {
		items[i] = g.String()
	}
	return bulletList(items)
}

func formatTags(tags []models.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func joinModules(codes []models.ModuleCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// FormatPerson renders a one-line summary of p.
func FormatPerson(p models.Person) string {
	var b strings.Builder
	b.WriteString(p.Name().String())
	if phone, ok := p.Phone(); ok {
		b.WriteString("; Phone: " + phone.String())
	}
	b.WriteString("; Email: " + p.Email().String())
	if address, ok := p.Address(); ok {
		b.WriteString("; Address: " + address.String())
	}
	if id, ok := p.StudentID(); ok {
		b.WriteString("; Student ID: " + id.String())
	}
	if codes := p.ModuleCodes(); len(codes) > 0 {
		b.WriteString("; Module Codes: " + joinModules(codes))
	}
	b.WriteString("; Tags: " + formatTags(p.Tags()))
	return b.String()
}
