package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/dto"
	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

// JSONRosterRepository loads and saves the roster as a JSON document.
type JSONRosterRepository struct {
	storage  fileStorage
	filename string
	validate *validator.Validate
	logger   *zap.Logger
}

// NewJSONRosterRepository constructs a repository writing filename through storage.
func NewJSONRosterRepository(storage fileStorage, filename string, validate *validator.Validate, logger *zap.Logger) *JSONRosterRepository {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONRosterRepository{storage: storage, filename: filename, validate: validate, logger: logger}
}

// Load reads the roster. A missing file yields an empty roster.
func (r *JSONRosterRepository) Load(ctx context.Context) ([]models.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := r.storage.Read(r.filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Info("data file not found, starting with an empty roster", zap.String("file", r.filename))
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.KindStorage, "Could not read data file")
	}
	var doc dto.Roster
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.KindStorage, "Data file is not in the correct format")
	}
	return DecodeRoster(r.validate, doc)
}

// Save writes persons to the data file.
func (r *JSONRosterRepository) Save(ctx context.Context, persons []models.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(EncodeRoster(persons), "", "  ")
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.KindStorage, "Could not encode roster")
	}
	if _, err := r.storage.Save(r.filename, payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.KindStorage, appErrors.ErrStorage.Message)
	}
	return nil
}

// EncodeRoster converts persons into the persisted document.
func EncodeRoster(persons []models.Person) dto.Roster {
	doc := dto.Roster{Persons: make([]dto.PersonRecord, 0, len(persons))}
	for _, p := range persons {
		doc.Persons = append(doc.Persons, encodePerson(p))
	}
	return doc
}

// DecodeRoster validates doc and rebuilds every person through the model
// constructors. The first invalid record aborts the load.
func DecodeRoster(validate *validator.Validate, doc dto.Roster) ([]models.Person, error) {
	persons := make([]models.Person, 0, len(doc.Persons))
	seen := make(map[models.StudentID]struct{}, len(doc.Persons))
	for _, rec := range doc.Persons {
		if err := validate.Struct(rec); err != nil {
			return nil, appErrors.Clone(appErrors.ErrStorage, missingFieldMessage(err))
		}
		p, err := decodePerson(rec)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrStorage, err.Error())
		}
		if id, ok := p.StudentID(); ok {
			if _, dup := seen[id]; dup {
				return nil, appErrors.Clonef(appErrors.ErrStorage, "Persons list contains duplicate student ID %s", id)
			}
			seen[id] = struct{}{}
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func missingFieldMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Status":
		return "Attendance status is missing!"
	case "AssignmentName", "Score":
		return fmt.Sprintf("Grade's %s field is missing!", fe.StructField())
	default:
		return fmt.Sprintf("Person's %s field is missing!", fe.StructField())
	}
}

func encodePerson(p models.Person) dto.PersonRecord {
	rec := dto.PersonRecord{
		Name:          p.Name().String(),
		Email:         p.Email().String(),
		ModuleCodes:   make([]string, 0),
		Tags:          make([]string, 0),
		Attendances:   make([]dto.AttendanceEntry, 0),
		Grades:        make([]dto.GradeRecord, 0),
		Consultations: make([]string, 0),
	}
	if phone, ok := p.Phone(); ok {
		rec.Phone = phone.String()
	}
	if address, ok := p.Address(); ok {
		rec.Address = address.String()
	}
	if id, ok := p.StudentID(); ok {
		rec.StudentID = id.String()
	}
	if remark, ok := p.Remark(); ok {
		rec.Remark = remark.String()
	}
	for _, m := range p.ModuleCodes() {
		rec.ModuleCodes = append(rec.ModuleCodes, m.String())
	}
	for _, t := range p.Tags() {
		rec.Tags = append(rec.Tags, string(t))
	}
	record := p.Attendance()
	for _, week := range record.Weeks() {
		status, _ := record.Status(week)
		rec.Attendances = append(rec.Attendances, dto.AttendanceEntry{Week: int(week), Status: status.String()})
	}
	for _, g := range p.Grades().All() {
		rec.Grades = append(rec.Grades, dto.GradeRecord{AssignmentName: g.AssignmentName, Score: g.Score})
	}
	for _, c := range p.Consultations() {
		rec.Consultations = append(rec.Consultations, c.StorageString())
	}
	return rec
}

func decodePerson(rec dto.PersonRecord) (models.Person, error) {
	var f models.PersonFields
	var err error

	if f.Name, err = models.NewName(rec.Name); err != nil {
		return models.Person{}, err
	}
	if f.Email, err = models.NewEmail(rec.Email); err != nil {
		return models.Person{}, err
	}
	if rec.StudentID != "" {
		if f.StudentID, err = models.NewStudentID(rec.StudentID); err != nil {
			return models.Person{}, err
		}
	}
	if rec.Phone != "" {
		if f.Phone, err = models.NewPhone(rec.Phone); err != nil {
			return models.Person{}, err
		}
	}
	if rec.Address != "" {
		if f.Address, err = models.NewAddress(rec.Address); err != nil {
			return models.Person{}, err
		}
	}
	if rec.Remark != "" {
		if f.Remark, err = models.NewRemark(rec.Remark); err != nil {
			return models.Person{}, err
		}
	}
	for _, raw := range rec.ModuleCodes {
		code, err := models.NewModuleCode(raw)
		if err != nil {
			return models.Person{}, err
		}
		f.ModuleCodes = append(f.ModuleCodes, code)
	}
	for _, raw := range rec.Tags {
		tag, err := models.NewTag(raw)
		if err != nil {
			return models.Person{}, err
		}
		f.Tags = append(f.Tags, tag)
	}
	entries := make(map[models.Week]models.AttendanceStatus, len(rec.Attendances))
	for _, a := range rec.Attendances {
		week, err := models.NewWeek(a.Week)
		if err != nil {
			return models.Person{}, err
		}
		status, err := models.ParseAttendanceStatus(a.Status)
		if err != nil || status == models.StatusUnmark {
			return models.Person{}, appErrors.Clonef(appErrors.ErrValidation, "Invalid attendance status: %s", a.Status)
		}
		entries[week] = status
	}
	f.Attendance = models.NewAttendanceRecord(entries)
	grades := make([]models.Grade, 0, len(rec.Grades))
	for _, g := range rec.Grades {
		grade, err := models.NewGrade(g.AssignmentName, g.Score)
		if err != nil {
			return models.Person{}, err
		}
		grades = append(grades, grade)
	}
	f.Grades = models.NewGradeSet(grades...)
	for _, raw := range rec.Consultations {
		c, err := models.ParseStoredConsultation(raw)
		if err != nil {
			return models.Person{}, appErrors.Clonef(appErrors.ErrValidation, "Invalid consultation date-time: %s", raw)
		}
		f.Consultations = append(f.Consultations, c)
	}
	return models.NewPerson(f)
}
