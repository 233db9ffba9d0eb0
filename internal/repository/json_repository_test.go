package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
	"github.com/noah-isme/teachmate/pkg/storage"
)

func newJSONRepo(t *testing.T) (*JSONRosterRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return NewJSONRosterRepository(store, "teachmate.json", nil, zap.NewNop()), dir
}

func richStudent(t *testing.T) models.Person {
	t.Helper()
	midterm, err := models.NewGrade("Midterm", "85")
	require.NoError(t, err)
	quiz, err := models.NewGrade("Quiz 1", "0")
	require.NoError(t, err)
	p, err := models.NewPerson(models.PersonFields{
		Name:        "John Doe",
		StudentID:   "A0123456X",
		Email:       "john@u.nus.edu",
		ModuleCodes: []models.ModuleCode{"CS2103T", "CS2101"},
		Tags:        []models.Tag{"friends", "Excelling"},
		Attendance: models.NewAttendanceRecord(map[models.Week]models.AttendanceStatus{
			1: models.StatusPresent,
			3: models.StatusAbsent,
		}),
		Grades:        models.NewGradeSet(midterm, quiz),
		Consultations: []models.Consultation{models.NewConsultation(time.Date(2030, time.March, 4, 14, 30, 0, 0, time.Local))},
		Remark:        "Needs help with OOP",
	})
	require.NoError(t, err)
	return p
}

func TestJSONRepositoryRoundTrip(t *testing.T) {
	repo, _ := newJSONRepo(t)
	ctx := context.Background()

	contact, err := models.NewPerson(models.PersonFields{
		Name:    "Alex Yeoh",
		Email:   "alexyeoh@example.com",
		Phone:   "87438807",
		Address: "Blk 30 Geylang Street 29, #06-40",
	})
	require.NoError(t, err)
	persons := []models.Person{richStudent(t), contact}

	require.NoError(t, repo.Save(ctx, persons))
	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for i := range persons {
		assert.True(t, persons[i].Equal(loaded[i]), "person %d differs after round trip", i)
	}
}

func TestJSONRepositoryMissingFileIsEmpty(t *testing.T) {
	repo, _ := newJSONRepo(t)

	persons, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestJSONRepositoryRejectsInvalidRecords(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		message string
	}{
		{
			name:    "missing email",
			payload: `{"persons":[{"name":"Amy","studentId":"A0000001A"}]}`,
			message: "Person's Email field is missing!",
		},
		{
			name:    "missing attendance status",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","attendances":[{"week":1}]}]}`,
			message: "Attendance status is missing!",
		},
		{
			name:    "missing grade score",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","grades":[{"assignmentName":"Quiz"}]}]}`,
			message: "Grade's Score field is missing!",
		},
		{
			name:    "invalid student id",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","studentId":"B123"}]}`,
			message: models.MessageStudentIDConstraints,
		},
		{
			name:    "unmark is not stored",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","attendances":[{"week":2,"status":"unmark"}]}]}`,
			message: "Invalid attendance status: unmark",
		},
		{
			name:    "bad consultation",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","consultations":["tomorrow"]}]}`,
			message: "Invalid consultation date-time: tomorrow",
		},
		{
			name:    "partial contact",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","phone":"91234567"}]}`,
			message: models.MessagePartialContact,
		},
		{
			name:    "duplicate student",
			payload: `{"persons":[{"name":"Amy","email":"a@x.com","studentId":"A0000001A"},{"name":"Amy B","email":"b@x.com","studentId":"A0000001A"}]}`,
			message: "Persons list contains duplicate student ID A0000001A",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, dir := newJSONRepo(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "teachmate.json"), []byte(tc.payload), 0o644))

			_, err := repo.Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrStorage)
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestJSONRepositoryRejectsMalformedJSON(t *testing.T) {
	repo, dir := newJSONRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teachmate.json"), []byte("{not json"), 0o644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Data file is not in the correct format", err.Error())
}

func TestEncodeRosterUsesStorageShapes(t *testing.T) {
	doc := EncodeRoster([]models.Person{richStudent(t)})
	require.Len(t, doc.Persons, 1)
	rec := doc.Persons[0]

	assert.Equal(t, "A0123456X", rec.StudentID)
	assert.Empty(t, rec.Phone)
	assert.Equal(t, []string{"2030-03-04T14:30"}, rec.Consultations)
	require.Len(t, rec.Attendances, 2)
	assert.Equal(t, 1, rec.Attendances[0].Week)
	assert.Equal(t, "present", rec.Attendances[0].Status)
}
