package dto

// Roster is the JSON document persisted to the data file.
type Roster struct {
	Persons []PersonRecord `json:"persons" validate:"dive"`
}

// PersonRecord is the persisted form of a person. Optional fields are
// omitted when absent.
type PersonRecord struct {
	Name          string            `json:"name" validate:"required"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email" validate:"required"`
	Address       string            `json:"address,omitempty"`
	StudentID     string            `json:"studentId,omitempty"`
	ModuleCodes   []string          `json:"moduleCodes"`
	Tags          []string          `json:"tags"`
	Attendances   []AttendanceEntry `json:"attendances" validate:"dive"`
	Grades        []GradeRecord     `json:"grades" validate:"dive"`
	Consultations []string          `json:"consultations"`
	Remark        string            `json:"remark,omitempty"`
}

// AttendanceEntry is one recorded week.
type AttendanceEntry struct {
	Week   int    `json:"week"`
	Status string `json:"status" validate:"required"`
}

// GradeRecord is one assignment score.
type GradeRecord struct {
	AssignmentName string `json:"assignmentName" validate:"required"`
	Score          string `json:"score" validate:"required"`
}
