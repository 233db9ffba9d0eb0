package command

import (
	"fmt"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

func (e *Executor) tag(store Store, c Tag) (Result, error) {
	target, err := resolve(store, c.Target, MessageTagNotFound)
	if err != nil {
		return Result{}, err
	}
	edited := target.WithTags(c.Tags...)
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	store.SetPredicate(showAll)
	return Result{Feedback: fmt.Sprintf(MessageTagSuccess, FormatPerson(edited)), Mutated: true}, nil
}

func (e *Executor) untag(store Store, c Untag) (Result, error) {
	target, err := resolve(store, c.Target, MessageTagNotFound)
	if err != nil {
		return Result{}, err
	}
	missing := make([]models.Tag, 0)
	for _, t := range c.Tags {
		if !target.HasTag(t) {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return Result{}, appErrors.Clonef(appErrors.ErrNotFound, MessageMissingTags, formatTags(missing))
	}
	edited := target.WithoutTags(c.Tags...)
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	store.SetPredicate(showAll)
	return Result{Feedback: fmt.Sprintf(MessageUntagSuccess, FormatPerson(edited)), Mutated: true}, nil
}

func (e *Executor) remark(store Store, c Remark) (Result, error) {
	target, ok := store.FindByStudentID(c.StudentID)
	if !ok {
		return Result{}, appErrors.Clonef(appErrors.ErrNotFound, MessageRemarkNotFound, c.StudentID)
	}
	edited := target.WithRemark(c.Remark)
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	store.SetPredicate(showAll)
	return Result{Feedback: fmt.Sprintf(MessageRemarkSuccess, edited.DisplayID()), Mutated: true}, nil
}
