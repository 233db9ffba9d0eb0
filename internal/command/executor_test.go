package command_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/models"
	"github.com/noah-isme/teachmate/internal/parser"
	"github.com/noah-isme/teachmate/internal/repository"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

type harness struct {
	t        *testing.T
	store    *repository.RosterStore
	parser   *parser.Parser
	executor *command.Executor
}

func newHarness(t *testing.T, persons ...models.Person) *harness {
	t.Helper()
	store, err := repository.NewRosterStore(persons...)
	require.NoError(t, err)
	clock := func() time.Time { return time.Date(2025, time.January, 1, 9, 0, 0, 0, time.Local) }
	return &harness{
		t:        t,
		store:    store,
		parser:   parser.New(parser.WithClock(clock)),
		executor: command.NewExecutor(zap.NewNop()),
	}
}

func (h *harness) run(line string) (command.Result, error) {
	h.t.Helper()
	cmd, err := h.parser.ParseCommand(line)
	require.NoError(h.t, err, line)
	return h.executor.Execute(h.store, cmd)
}

func (h *harness) mustRun(line string) command.Result {
	h.t.Helper()
	res, err := h.run(line)
	require.NoError(h.t, err, line)
	return res
}

func (h *harness) student(id models.StudentID) models.Person {
	h.t.Helper()
	p, ok := h.store.FindByStudentID(id)
	require.True(h.t, ok, id)
	return p
}

func contact(t *testing.T, name string) models.Person {
	t.Helper()
	p, err := models.NewPerson(models.PersonFields{
		Name:    models.Name(name),
		Email:   "contact@example.com",
		Phone:   "98765432",
		Address: "Blk 30 Geylang Street 29",
	})
	require.NoError(t, err)
	return p
}

func TestAddRejectsDuplicateStudentID(t *testing.T) {
	h := newHarness(t)

	res := h.mustRun("add n/John s/A0123456X e/j@x.com m/CS2103T")
	assert.True(t, res.Mutated)
	assert.Equal(t, "✓ Added student: John (A0123456X)", res.Feedback)
	assert.Equal(t, 1, h.store.Len())

	_, err := h.run("add n/Johnny s/A0123456X e/other@x.com m/CS2101")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.True(t, appErrors.IsExecution(err))
	assert.Equal(t, "Cannot add student: A student with ID A0123456X already exists in TeachMate.", err.Error())
	assert.Equal(t, 1, h.store.Len())
}

func TestGradeUpdatesExistingAndAddsNew(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/John s/A0123456X e/j@x.com m/CS2103T")
	h.mustRun("grade 1 g/Midterm:70")

	res := h.mustRun("grade 1 g/midterm:85 g/Quiz1:90")
	assert.Contains(t, res.Feedback, "Added 1 grade and updated 1 grade for John (A0123456X)")

	grades := h.student("A0123456X").Grades()
	assert.Equal(t, 2, grades.Len())
	midterm, ok := grades.FindFold("Midterm")
	require.True(t, ok)
	assert.Equal(t, "85", midterm.Score)
	quiz, ok := grades.Find("Quiz1")
	require.True(t, ok)
	assert.Equal(t, "90", quiz.Score)
}

func TestGradeRejectsContact(t *testing.T) {
	h := newHarness(t, contact(t, "Alex Yeoh"))

	_, err := h.run("grade 1 g/Midterm:50")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotStudent)
}

func TestDeleteGradeRequiresExistingAssignment(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/John s/A0123456X e/j@x.com m/CS2103T")
	h.mustRun("grade 1 g/Midterm:70 g/Quiz1:60")
	before := h.student("A0123456X")

	_, err := h.run("deletegrade 1 g/Quiz1 g/Final")
	require.Error(t, err)
	assert.Equal(t, "Grade not found for assignment: Final", err.Error())
	assert.True(t, before.Equal(h.student("A0123456X")))

	h.mustRun("deletegrade 1 g/Quiz1")
	_, ok := h.student("A0123456X").Grades().Find("Quiz1")
	assert.False(t, ok)
}

func TestFilterRequiresEveryTag(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T t/friends t/owesMoney")
	h.mustRun("add n/Ben s/A0000002B e/ben@x.com m/CS2103T t/friends")
	h.mustRun("add n/Cat s/A0000003C e/cat@x.com m/CS2101")

	res := h.mustRun("filter t/friends t/owesMoney")
	assert.Equal(t, "✓ 1 students listed.", res.Feedback)
	require.Len(t, h.store.Filtered(), 1)
	assert.Equal(t, models.Name("Amy"), h.store.Filtered()[0].Name())

	res = h.mustRun("list m/CS2101")
	assert.Equal(t, "Listed all students in module: CS2101", res.Feedback)
	assert.Len(t, h.store.Filtered(), 1)

	res = h.mustRun("list m/MA1521")
	assert.Equal(t, "No students found in this module: MA1521", res.Feedback)
	assert.Empty(t, h.store.Filtered())

	res = h.mustRun("list")
	assert.Equal(t, command.MessageListAll, res.Feedback)
	assert.Len(t, h.store.Filtered(), 3)
}

func TestStudentUpdatesResetDisplayedList(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T t/friends")
	h.mustRun("add n/Ben s/A0000002B e/ben@x.com m/CS2103T")

	for _, line := range []string{
		"tag 1 t/quiet",
		"untag 1 t/quiet",
		"grade 1 g/Quiz:5",
		"deletegrade 1 g/Quiz",
		"remark s/A0000001A r/Quiet",
	} {
		h.mustRun("filter t/friends")
		require.Len(t, h.store.Filtered(), 1)

		h.mustRun(line)
		assert.Len(t, h.store.Filtered(), 2, line)
	}
}

func TestIndexResolvesAgainstFilteredList(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T")
	h.mustRun("add n/Ben s/A0000002B e/ben@x.com m/CS2101")
	h.mustRun("list m/CS2101")

	res := h.mustRun("delete 1")
	assert.Equal(t, "✓ Deleted student: Ben (A0000002B)", res.Feedback)
	_, ok := h.store.FindByStudentID("A0000001A")
	assert.True(t, ok)

	_, err := h.run("delete 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidIndex)

	_, err = h.run("delete s/A9999999Z")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "No student found with student ID A9999999Z. Use 'list' to see all students.", err.Error())
}

func TestUntagReportsMissingTagsAtomically(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T t/friends")

	res := h.mustRun("tag s/A0000001A t/Excelling t/friends")
	assert.Contains(t, res.Feedback, "Tags: [Excelling] [friends]")

	_, err := h.run("untag 1 t/friends t/Inactive t/Late")
	require.Error(t, err)
	assert.Equal(t, "Some tags do not exist on this person: [Inactive] [Late]", err.Error())
	assert.True(t, h.student("A0000001A").HasTag("friends"))

	h.mustRun("untag 1 t/friends")
	assert.False(t, h.student("A0000001A").HasTag("friends"))
	assert.True(t, h.student("A0000001A").HasTag("Excelling"))
}

func TestEditIsAllOrNothing(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T")
	h.mustRun("add n/Ben s/A0000002B e/ben@x.com m/CS2103T")
	h.mustRun("grade 1 g/Midterm:40")
	before := h.student("A0000001A")

	_, err := h.run("edit 1 n/Amelia g/Final:50")
	require.Error(t, err)
	assert.Equal(t, "Grade not found for assignment: Final", err.Error())
	assert.True(t, before.Equal(h.student("A0000001A")))

	_, err = h.run("edit 1 s/A0000002B")
	require.Error(t, err)
	assert.Equal(t, "Cannot edit student: A student with ID A0000002B already exists in TeachMate.", err.Error())

	_, err = h.run("edit 1 p/91234567")
	require.Error(t, err)
	assert.True(t, appErrors.IsExecution(err))
	assert.Contains(t, err.Error(), models.MessagePartialContact)
	assert.True(t, before.Equal(h.student("A0000001A")))

	res := h.mustRun("edit 1 n/Amelia g/MIDTERM:75 w/2:absent r/Quiet t/")
	assert.Contains(t, res.Feedback, "✓ Updated student: Amelia (A0000001A)")
	edited := h.student("A0000001A")
	assert.Equal(t, models.Name("Amelia"), edited.Name())
	midterm, ok := edited.Grades().FindFold("midterm")
	require.True(t, ok)
	assert.Equal(t, "75", midterm.Score)
	status, ok := edited.Attendance().Status(2)
	require.True(t, ok)
	assert.Equal(t, models.StatusAbsent, status)
	assert.Empty(t, edited.Tags())
}

func TestAttendanceMarkAllAndUnmark(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T")
	h.mustRun("add n/Ben s/A0000002B e/ben@x.com m/CS2103T")

	res := h.mustRun("attendance all w/1 present")
	assert.Equal(t, "Marked attendance for all students: Week 1 - present (2 students)", res.Feedback)
	for _, p := range h.store.Persons() {
		status, ok := p.Attendance().Status(1)
		require.True(t, ok)
		assert.Equal(t, models.StatusPresent, status)
	}

	res = h.mustRun("attendance s/A0000002B w/1 absent")
	assert.Equal(t, "Marked attendance for Ben (A0000002B): Week 1 - absent", res.Feedback)
	assert.Equal(t, 1, h.student("A0000002B").Attendance().Len())

	res = h.mustRun("attendance 2 w/1 unmark")
	assert.Equal(t, "Unmarked attendance for Ben (A0000002B): Week 1", res.Feedback)
	assert.False(t, h.student("A0000002B").Attendance().Has(1))

	_, err := h.run("attendance s/A0000009Z w/1 present")
	require.Error(t, err)
	assert.Equal(t, "No student found with ID: A0000009Z", err.Error())
}

func TestViewRendersAttendanceRate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T")
	h.mustRun("add n/Ben s/A0000002B e/ben@x.com m/CS2103T")
	h.mustRun("attendance 1 w/1 present")
	h.mustRun("attendance 1 w/2 absent")
	h.mustRun("remark s/A0000001A r/Needs help")

	res := h.mustRun("view s/A0000001A")
	assert.Contains(t, res.Feedback, "=== STUDENT DETAILS ===")
	assert.Contains(t, res.Feedback, "Remark: Needs help")
	assert.Contains(t, res.Feedback, "Week 1: ✓ Present")
	assert.Contains(t, res.Feedback, "Week 2: ✗ Absent")
	assert.Contains(t, res.Feedback, "Attendance Rate: 50.0% (1/2 weeks)")
	assert.False(t, res.Mutated)
	require.Len(t, h.store.Filtered(), 1)

	_, err := h.run("view 2")
	assert.ErrorIs(t, err, appErrors.ErrInvalidIndex)

	h.mustRun("list")
	res = h.mustRun("view 2")
	assert.Contains(t, res.Feedback, "Name: Ben")
	assert.Contains(t, res.Feedback, "No attendance recorded yet.")
}

func TestClearHelpExit(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add n/Amy s/A0000001A e/amy@x.com m/CS2103T")

	res := h.mustRun("clear")
	assert.Equal(t, command.MessageClearSuccess, res.Feedback)
	assert.Equal(t, 0, h.store.Len())

	res = h.mustRun("help")
	assert.True(t, res.ShowHelp)
	assert.Equal(t, command.MessageHelp, res.Feedback)

	res = h.mustRun("exit")
	assert.True(t, res.Exit)
}

func TestWord(t *testing.T) {
	assert.Equal(t, command.WordDeleteGrade, command.Word(command.DeleteGrade{}))
	assert.Equal(t, command.WordList, command.Word(command.List{}))
}
