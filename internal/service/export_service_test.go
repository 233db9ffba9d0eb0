package service

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/models"
	"github.com/noah-isme/teachmate/pkg/export"
	"github.com/noah-isme/teachmate/pkg/storage"
)

func exportPersons(t *testing.T) []models.Person {
	t.Helper()
	midterm, err := models.NewGrade("Midterm", "85")
	require.NoError(t, err)
	amy, err := models.NewPerson(models.PersonFields{
		Name:        "Amy Tan",
		StudentID:   "A0000001A",
		Email:       "amy@u.nus.edu",
		ModuleCodes: []models.ModuleCode{"CS2103T"},
		Tags:        []models.Tag{"friends"},
		Attendance: models.NewAttendanceRecord(map[models.Week]models.AttendanceStatus{
			1: models.StatusPresent,
			2: models.StatusAbsent,
		}),
		Grades: models.NewGradeSet(midterm),
		Remark: "Quiet, but consistent",
	})
	require.NoError(t, err)
	ben, err := models.NewPerson(models.PersonFields{
		Name:        "Ben Lim",
		StudentID:   "A0000002B",
		Email:       "ben@u.nus.edu",
		ModuleCodes: []models.ModuleCode{"CS2101"},
	})
	require.NoError(t, err)
	return []models.Person{amy, ben}
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(store, ExportConfig{Retention: time.Hour}, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)

	result, err := svc.Export(context.Background(), exportPersons(t), ExportRequest{Format: ExportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.True(t, strings.HasPrefix(result.RelativePath, "roster_all_"))
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))

	raw, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Student ID", "Email", "Modules", "Tags", "Attendance", "Grades", "Remark"}, records[0])
	assert.Equal(t, []string{"Amy Tan", "A0000001A", "amy@u.nus.edu", "CS2103T", "friends", "50.0% (1/2)", "Midterm 85", "Quiet, but consistent"}, records[1])
	assert.Equal(t, "", records[2][5])
}

func TestExportServicePDFForModule(t *testing.T) {
	svc, store := newExportServiceForTest(t)

	result, err := svc.Export(context.Background(), exportPersons(t), ExportRequest{Format: ExportFormatPDF, Module: "CS2101"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, ExportFormatPDF, result.Format)
	assert.Contains(t, result.RelativePath, "roster_cs2101_")

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceCleanup(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	result, err := svc.Export(context.Background(), exportPersons(t), ExportRequest{Format: ExportFormatCSV})
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(result.RelativePath), past, past))

	deleted, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, []string{result.RelativePath}, deleted)
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, f)

	_, err = ParseExportFormat("xlsx")
	assert.Error(t, err)
}
