package models

import (
	"sort"
	"strings"
)

// MessagePartialContact is returned when only one of phone and address is set.
const MessagePartialContact = "Person must have both phone and address, or neither"

// PersonFields is the plain form of a Person used to build or rebuild one.
// StudentID, Phone, Address and Remark are optional; the empty value means absent.
type PersonFields struct {
	Name          Name
	StudentID     StudentID
	Email         Email
	Phone         Phone
	Address       Address
	ModuleCodes   []ModuleCode
	Tags          []Tag
	Attendance    AttendanceRecord
	Grades        GradeSet
	Consultations []Consultation
	Remark        Remark
}

// Person is an immutable roster entry. It is never changed after
// construction; every With method returns a new Person.
//
// Two shapes are allowed: a student (no phone, no address) and a contact
// (both phone and address).
type Person struct {
	f PersonFields
}

// NewPerson validates the shape of f and returns the Person. Sets are
// de-duplicated and sorted.
func NewPerson(f PersonFields) (Person, error) {
	if (f.Phone == "") != (f.Address == "") {
		return Person{}, constraintError(MessagePartialContact)
	}
	f.ModuleCodes = uniqueModules(f.ModuleCodes)
	f.Tags = uniqueTags(f.Tags)
	f.Consultations = append([]Consultation(nil), f.Consultations...)
	return Person{f: f}, nil
}

// Fields returns a copy of the person's data, suitable for NewPerson.
func (p Person) Fields() PersonFields {
	f := p.f
	f.ModuleCodes = append([]ModuleCode(nil), p.f.ModuleCodes...)
	f.Tags = append([]Tag(nil), p.f.Tags...)
	f.Consultations = append([]Consultation(nil), p.f.Consultations...)
	return f
}

func (p Person) Name() Name   { return p.f.Name }
func (p Person) Email() Email { return p.f.Email }

func (p Person) StudentID() (StudentID, bool) { return p.f.StudentID, p.f.StudentID != "" }
func (p Person) Phone() (Phone, bool)         { return p.f.Phone, p.f.Phone != "" }
func (p Person) Address() (Address, bool)     { return p.f.Address, p.f.Address != "" }
func (p Person) Remark() (Remark, bool)       { return p.f.Remark, p.f.Remark != "" }

// IsStudent reports whether the person carries a student ID.
func (p Person) IsStudent() bool { return p.f.StudentID != "" }

func (p Person) ModuleCodes() []ModuleCode { return append([]ModuleCode(nil), p.f.ModuleCodes...) }
func (p Person) Tags() []Tag               { return append([]Tag(nil), p.f.Tags...) }
func (p Person) Attendance() AttendanceRecord {
	return p.f.Attendance
}
func (p Person) Grades() GradeSet { return p.f.Grades }
func (p Person) Consultations() []Consultation {
	return append([]Consultation(nil), p.f.Consultations...)
}

// HasModule reports enrolment in code.
func (p Person) HasModule(code ModuleCode) bool {
	for _, m := range p.f.ModuleCodes {
		if m == code {
			return true
		}
	}
	return false
}

// HasTag reports whether tag is set.
func (p Person) HasTag(tag Tag) bool {
	for _, t := range p.f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAllTags reports whether every tag in tags is set.
func (p Person) HasAllTags(tags []Tag) bool {
	for _, t := range tags {
		if !p.HasTag(t) {
			return false
		}
	}
	return true
}

// SameIdentity compares by student ID when either side has one, by name otherwise.
func (p Person) SameIdentity(other Person) bool {
	if p.f.StudentID != "" || other.f.StudentID != "" {
		return p.f.StudentID == other.f.StudentID
	}
	return p.f.Name == other.f.Name
}

// DisplayID renders "Name (StudentID)", or only the name for a contact.
func (p Person) DisplayID() string {
	if p.f.StudentID == "" {
		return string(p.f.Name)
	}
	return string(p.f.Name) + " (" + string(p.f.StudentID) + ")"
}

// WithTags returns a copy holding the union of the current tags and tags.
func (p Person) WithTags(tags ...Tag) Person {
	f := p.Fields()
	f.Tags = uniqueTags(append(f.Tags, tags...))
	return Person{f: f}
}

// WithoutTags returns a copy with tags removed.
func (p Person) WithoutTags(tags ...Tag) Person {
	drop := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		drop[t] = struct{}{}
	}
	f := p.Fields()
	kept := f.Tags[:0]
	for _, t := range f.Tags {
		if _, ok := drop[t]; !ok {
			kept = append(kept, t)
		}
	}
	f.Tags = kept
	return Person{f: f}
}

// WithAttendance returns a copy with week set to status (or removed for unmark).
func (p Person) WithAttendance(week Week, status AttendanceStatus) Person {
	f := p.Fields()
	f.Attendance = p.f.Attendance.Mark(week, status)
	return Person{f: f}
}

// WithGrades returns a copy with every grade put into the set.
func (p Person) WithGrades(grades ...Grade) Person {
	f := p.Fields()
	set := f.Grades
	for _, g := range grades {
		set = set.Put(g)
	}
	f.Grades = set
	return Person{f: f}
}

// WithoutGrades returns a copy with the named grades removed.
func (p Person) WithoutGrades(names ...string) Person {
	f := p.Fields()
	f.Grades = f.Grades.Remove(names...)
	return Person{f: f}
}

// WithRemark returns a copy with the remark replaced.
func (p Person) WithRemark(r Remark) Person {
	f := p.Fields()
	f.Remark = r
	return Person{f: f}
}

// Equal compares every field.
func (p Person) Equal(other Person) bool {
	a, b := p.f, other.f
	if a.Name != b.Name || a.StudentID != b.StudentID || a.Email != b.Email ||
		a.Phone != b.Phone || a.Address != b.Address || a.Remark != b.Remark {
		return false
	}
	if !equalSlices(a.ModuleCodes, b.ModuleCodes) || !equalSlices(a.Tags, b.Tags) {
		return false
	}
	if !a.Attendance.Equal(b.Attendance) || !a.Grades.Equal(b.Grades) {
		return false
	}
	if len(a.Consultations) != len(b.Consultations) {
		return false
	}
	for i := range a.Consultations {
		if !a.Consultations[i].Equal(b.Consultations[i]) {
			return false
		}
	}
	return true
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uniqueModules(in []ModuleCode) []ModuleCode {
	seen := make(map[ModuleCode]struct{}, len(in))
	out := make([]ModuleCode, 0, len(in))
	for _, m := range in {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func uniqueTags(in []Tag) []Tag {
	seen := make(map[Tag]struct{}, len(in))
	out := make([]Tag, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(string(out[i])), strings.ToLower(string(out[j]))
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}
