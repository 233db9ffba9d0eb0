package command

import (
	"fmt"
	"strings"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// grade overwrites existing grades and adds new ones. Whether an incoming
// grade is an update is decided against the target's current grades,
// ignoring case.
func (e *Executor) grade(store Store, c Grade) (Result, error) {
	target, err := personAt(store, c.Index)
	if err != nil {
		return Result{}, err
	}
	if !target.IsStudent() {
		return Result{}, appErrors.Clone(appErrors.ErrNotStudent, MessageNotStudent)
	}

	incoming := dedupeGrades(c.Grades)
	current := target.Grades()
	added, updated := 0, 0
	for _, g := range incoming {
		if _, ok := current.FindFold(g.AssignmentName); ok {
			updated++
		} else {
			added++
		}
	}

	edited := target.WithGrades(incoming...)
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	store.SetPredicate(showAll)

	who := edited.DisplayID()
	list := formatGrades(incoming)
	var feedback string
	switch {
	case updated == 0:
		feedback = fmt.Sprintf(MessageGradeAdded, formatCount(added, "grade"), who, list)
	case added == 0:
		feedback = fmt.Sprintf(MessageGradeUpdated, formatCount(updated, "grade"), who, list)
	default:
		feedback = fmt.Sprintf(MessageGradeMixed, formatCount(added, "grade"), formatCount(updated, "grade"), who, list)
	}
	return Result{Feedback: feedback, Mutated: true}, nil
}

// dedupeGrades keeps the last grade given for each assignment name, ignoring case.
func dedupeGrades(grades []models.Grade) []models.Grade {
	out := make([]models.Grade, 0, len(grades))
	pos := make(map[string]int, len(grades))
	for _, g := range grades {
		key := strings.ToLower(g.AssignmentName)
		if i, ok := pos[key]; ok {
			out[i] = g
			continue
		}
		pos[key] = len(out)
		out = append(out, g)
	}
	return out
}

func (e *Executor) deleteGrade(store Store, c DeleteGrade) (Result, error) {
	target, err := personAt(store, c.Index)
	if err != nil {
		return Result{}, err
	}
	if !target.IsStudent() {
		return Result{}, appErrors.Clone(appErrors.ErrNotStudent, MessageNotStudent)
	}
	current := target.Grades()
	for _, name := range c.Names {
		if _, ok := current.Find(name); !ok {
			return Result{}, appErrors.Clonef(appErrors.ErrNotFound, MessageGradeNotFound, name)
		}
	}
	edited := target.WithoutGrades(c.Names...)
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	store.SetPredicate(showAll)
	return Result{Feedback: fmt.Sprintf(MessageDeleteGrade, edited.DisplayID()), Mutated: true}, nil
}
