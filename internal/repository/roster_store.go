package repository

import (
	"fmt"

	"github.com/noah-isme/teachmate/internal/models"
)

// Predicate selects persons for the displayed list.
type Predicate func(models.Person) bool

// ShowAll is the predicate that keeps everyone.
func ShowAll(models.Person) bool { return true }

// RosterStore is the in-memory roster: persons in insertion order plus the
// filtered view produced by the current predicate. The filtered view is
// recomputed whenever persons or the predicate change.
//
// It is owned by a single goroutine and does no locking.
type RosterStore struct {
	persons   []models.Person
	predicate Predicate
	filtered  []models.Person
}

// NewRosterStore builds a store holding persons. Duplicate student IDs are rejected.
func NewRosterStore(persons ...models.Person) (*RosterStore, error) {
	s := &RosterStore{predicate: ShowAll}
	if err := s.SetPersons(persons); err != nil {
		return nil, err
	}
	return s, nil
}

// Persons returns every person in insertion order.
func (s *RosterStore) Persons() []models.Person {
	return append([]models.Person(nil), s.persons...)
}

// Filtered returns the persons matching the current predicate.
func (s *RosterStore) Filtered() []models.Person {
	return append([]models.Person(nil), s.filtered...)
}

func (s *RosterStore) Len() int { return len(s.persons) }

// FindByStudentID looks a student up by identity key.
func (s *RosterStore) FindByStudentID(id models.StudentID) (models.Person, bool) {
	for _, p := range s.persons {
		if pid, ok := p.StudentID(); ok && pid == id {
			return p, true
		}
	}
	return models.Person{}, false
}

// HasPerson reports whether a person with the same identity is stored.
func (s *RosterStore) HasPerson(p models.Person) bool {
	for _, q := range s.persons {
		if q.SameIdentity(p) {
			return true
		}
	}
	return false
}

// Add appends p. It fails when a person with the same identity exists.
func (s *RosterStore) Add(p models.Person) error {
	if s.HasPerson(p) {
		return fmt.Errorf("person %s already exists", p.DisplayID())
	}
	s.persons = append(s.persons, p)
	s.refresh()
	return nil
}

// Replace swaps target for edited at the same position.
func (s *RosterStore) Replace(target, edited models.Person) error {
	i := s.indexOf(target)
	if i < 0 {
		return fmt.Errorf("person %s not found", target.DisplayID())
	}
	for j, q := range s.persons {
		if j != i && q.SameIdentity(edited) {
			return fmt.Errorf("person %s already exists", edited.DisplayID())
		}
	}
	next := append([]models.Person(nil), s.persons...)
	next[i] = edited
	s.persons = next
	s.refresh()
	return nil
}

// Remove deletes target.
func (s *RosterStore) Remove(target models.Person) error {
	i := s.indexOf(target)
	if i < 0 {
		return fmt.Errorf("person %s not found", target.DisplayID())
	}
	next := make([]models.Person, 0, len(s.persons)-1)
	next = append(next, s.persons[:i]...)
	next = append(next, s.persons[i+1:]...)
	s.persons = next
	s.refresh()
	return nil
}

// SetPersons replaces the whole roster. Nothing changes if persons holds
// two entries with the same identity.
func (s *RosterStore) SetPersons(persons []models.Person) error {
	for i := range persons {
		for j := i + 1; j < len(persons); j++ {
			if persons[i].SameIdentity(persons[j]) {
				return fmt.Errorf("duplicate person %s", persons[j].DisplayID())
			}
		}
	}
	s.persons = append([]models.Person(nil), persons...)
	s.refresh()
	return nil
}

// SetPredicate replaces the display predicate. Nil shows everyone.
func (s *RosterStore) SetPredicate(pred func(models.Person) bool) {
	if pred == nil {
		pred = ShowAll
	}
	s.predicate = pred
	s.refresh()
}

// ResetPredicate shows everyone again.
func (s *RosterStore) ResetPredicate() { s.SetPredicate(nil) }

// Clear empties the roster.
func (s *RosterStore) Clear() {
	s.persons = nil
	s.refresh()
}

func (s *RosterStore) indexOf(target models.Person) int {
	for i, p := range s.persons {
		if p.Equal(target) {
			return i
		}
	}
	for i, p := range s.persons {
		if p.SameIdentity(target) {
			return i
		}
	}
	return -1
}

func (s *RosterStore) refresh() {
	filtered := make([]models.Person, 0, len(s.persons))
	for _, p := range s.persons {
		if s.predicate(p) {
			filtered = append(filtered, p)
		}
	}
	s.filtered = filtered
}
