package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
	"github.com/noah-isme/teachmate/pkg/export"
)

// ExportFormat is the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts csv or pdf in any case.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case ExportFormatCSV, ExportFormatPDF:
		return f, nil
	default:
		return "", appErrors.Clonef(appErrors.ErrValidation, "Unsupported export format %q. Use csv or pdf.", raw)
	}
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Retention time.Duration
}

// ExportRequest selects what to export.
type ExportRequest struct {
	Format ExportFormat
	// Module limits the export to students enrolled in it when set.
	Module models.ModuleCode
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Path         string
	Format       ExportFormat
	Rows         int
	GeneratedAt  time.Time
}

// ExportService renders the roster and stores the file.
type ExportService struct {
	storage exportStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(storage exportStorage, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Export renders persons in the requested format and saves the file.
func (s *ExportService) Export(ctx context.Context, persons []models.Person, req ExportRequest) (*ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Module != "" {
		selected := make([]models.Person, 0, len(persons))
		for _, p := range persons {
			if p.HasModule(req.Module) {
				selected = append(selected, p)
			}
		}
		persons = selected
	}

	generatedAt := s.now()
	dataset := BuildRosterDataset(persons, rosterTitle(req.Module, generatedAt))

	var (
		payload []byte
		err     error
	)
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		return nil, appErrors.Clonef(appErrors.ErrValidation, "Unsupported export format %q. Use csv or pdf.", req.Format)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.KindInternal, "Could not render export")
	}

	filename := s.buildFilename(req, generatedAt)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.KindStorage, "Could not write export file")
	}
	s.logger.Info("roster exported",
		zap.String("file", relPath),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(dataset.Rows)),
	)

	return &ExportResult{
		RelativePath: relPath,
		Path:         s.storage.Path(relPath),
		Format:       req.Format,
		Rows:         len(dataset.Rows),
		GeneratedAt:  generatedAt,
	}, nil
}

// Cleanup removes exports older than ttl (defaults to the configured retention when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.Retention
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(req ExportRequest, at time.Time) string {
	timestamp := at.UTC().Format("20060102_150405")
	scope := "all"
	if req.Module != "" {
		scope = sanitizeFilename(strings.ToLower(req.Module.String()))
	}
	return fmt.Sprintf("roster_%s_%s_%s.%s", scope, timestamp, uuid.NewString()[:8], req.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func rosterTitle(module models.ModuleCode, at time.Time) string {
	if module == "" {
		return "TeachMate roster " + at.Format("02/01/2006")
	}
	return fmt.Sprintf("TeachMate roster %s %s", module, at.Format("02/01/2006"))
}

// Roster dataset column keys.
const (
	ColumnName       = "name"
	ColumnStudentID  = "student_id"
	ColumnEmail      = "email"
	ColumnModules    = "modules"
	ColumnTags       = "tags"
	ColumnAttendance = "attendance"
	ColumnGrades     = "grades"
	ColumnRemark     = "remark"
)

// BuildRosterDataset flattens persons into export rows in roster order.
func BuildRosterDataset(persons []models.Person, title string) export.Dataset {
	dataset := export.Dataset{
		Title: title,
		Columns: []export.Column{
			{Key: ColumnName, Label: "Name", Width: 2},
			{Key: ColumnStudentID, Label: "Student ID", Width: 1.2},
			{Key: ColumnEmail, Label: "Email", Width: 2.2},
			{Key: ColumnModules, Label: "Modules", Width: 1.6},
			{Key: ColumnTags, Label: "Tags", Width: 1.6},
			{Key: ColumnAttendance, Label: "Attendance", Width: 1.2},
			{Key: ColumnGrades, Label: "Grades", Width: 2.4},
			{Key: ColumnRemark, Label: "Remark", Width: 2},
		},
		Rows: make([]map[string]string, 0, len(persons)),
	}
	for _, p := range persons {
		row := map[string]string{
			ColumnName:  p.Name().String(),
			ColumnEmail: p.Email().String(),
		}
		if id, ok := p.StudentID(); ok {
			row[ColumnStudentID] = id.String()
		}
		modules := make([]string, 0)
		for _, m := range p.ModuleCodes() {
			modules = append(modules, m.String())
		}
		row[ColumnModules] = strings.Join(modules, ", ")
		tags := make([]string, 0)
		for _, t := range p.Tags() {
			tags = append(tags, string(t))
		}
		row[ColumnTags] = strings.Join(tags, ", ")
		if summary := p.Attendance().Summary(); summary.Total > 0 {
			row[ColumnAttendance] = fmt.Sprintf("%.1f%% (%d/%d)", summary.Rate(), summary.Present, summary.Total)
		}
		grades := make([]string, 0)
		for _, g := range p.Grades().Sorted() {
			grades = append(grades, g.AssignmentName+" "+g.Score)
		}
		row[ColumnGrades] = strings.Join(grades, "; ")
		if remark, ok := p.Remark(); ok {
			row[ColumnRemark] = remark.String()
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset
}
