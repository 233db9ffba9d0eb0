package models

import (
	"regexp"
	"sort"
	"strings"
)

const (
	MessageGradeConstraints          = "Grades should be a number between 0 and 100"
	MessageAssignmentNameConstraints = "Assignment name should not be blank"
)

var scorePattern = regexp.MustCompile(`^(100|[0-9]{1,2})$`)

// Grade is a score for one assignment. Score is kept as its validated
// decimal text.
type Grade struct {
	AssignmentName string
	Score          string
}

// NewGrade trims and validates both halves of a grade.
func NewGrade(assignmentName, score string) (Grade, error) {
	name := strings.TrimSpace(assignmentName)
	value := strings.TrimSpace(score)
	if name == "" {
		return Grade{}, constraintError(MessageAssignmentNameConstraints)
	}
	if !scorePattern.MatchString(value) {
		return Grade{}, constraintError(MessageGradeConstraints)
	}
	return Grade{AssignmentName: name, Score: value}, nil
}

func (g Grade) String() string { return g.AssignmentName + ": " + g.Score }

// GradeSet holds at most one grade per assignment name, compared without case.
// Every change returns a new set.
type GradeSet struct {
	grades []Grade
}

// NewGradeSet builds a set; later grades replace earlier ones with the same name.
func NewGradeSet(grades ...Grade) GradeSet {
	set := GradeSet{}
	for _, g := range grades {
		set = set.Put(g)
	}
	return set
}

func (s GradeSet) indexFold(name string) int {
	for i, g := range s.grades {
		if strings.EqualFold(g.AssignmentName, name) {
			return i
		}
	}
	return -1
}

// Find looks up a grade by exact assignment name.
func (s GradeSet) Find(name string) (Grade, bool) {
	for _, g := range s.grades {
		if g.AssignmentName == name {
			return g, true
		}
	}
	return Grade{}, false
}

// FindFold looks up a grade ignoring case.
func (s GradeSet) FindFold(name string) (Grade, bool) {
	if i := s.indexFold(name); i >= 0 {
		return s.grades[i], true
	}
	return Grade{}, false
}

// Put adds g, replacing any grade whose name matches without case.
func (s GradeSet) Put(g Grade) GradeSet {
	next := make([]Grade, len(s.grades), len(s.grades)+1)
	copy(next, s.grades)
	if i := s.indexFold(g.AssignmentName); i >= 0 {
		next[i] = g
	} else {
		next = append(next, g)
	}
	return GradeSet{grades: next}
}

// Remove drops the grades with exactly the given names.
func (s GradeSet) Remove(names ...string) GradeSet {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	next := make([]Grade, 0, len(s.grades))
	for _, g := range s.grades {
		if _, ok := drop[g.AssignmentName]; ok {
			continue
		}
		next = append(next, g)
	}
	return GradeSet{grades: next}
}

func (s GradeSet) Len() int { return len(s.grades) }

// All returns the grades in insertion order.
func (s GradeSet) All() []Grade {
	out := make([]Grade, len(s.grades))
	copy(out, s.grades)
	return out
}

// Sorted returns the grades ordered by assignment name, ignoring case.
func (s GradeSet) Sorted() []Grade {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].AssignmentName) < strings.ToLower(out[j].AssignmentName)
	})
	return out
}

// Equal compares sets without regard to order.
func (s GradeSet) Equal(other GradeSet) bool {
	if len(s.grades) != len(other.grades) {
		return false
	}
	for _, g := range s.grades {
		found, ok := other.Find(g.AssignmentName)
		if !ok || found.Score != g.Score {
			return false
		}
	}
	return true
}
