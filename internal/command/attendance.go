package command

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// attendance sets or removes one week's status. Week and status are
// validated at parse time, so marking everyone cannot fail part way.
func (e *Executor) attendance(store Store, c Attendance) (Result, error) {
	week, status := c.Entry.Week, c.Entry.Status

	if c.Target.All {
		persons := store.Persons()
		updated := make([]models.Person, len(persons))
		for i, p := range persons {
			updated[i] = p.WithAttendance(week, status)
		}
		if err := store.SetPersons(updated); err != nil {
			return Result{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.KindInternal, "failed to mark attendance")
		}
		e.logger.Debug("attendance marked for all", zap.Int("week", int(week)), zap.String("status", status.String()), zap.Int("students", len(updated)))
		if status == models.StatusUnmark {
			return Result{Feedback: fmt.Sprintf(MessageUnmarkAll, week, len(updated)), Mutated: true}, nil
		}
		return Result{Feedback: fmt.Sprintf(MessageMarkAllSuccess, week, status, len(updated)), Mutated: true}, nil
	}

	target, err := resolve(store, c.Target, MessageStudentMissing)
	if err != nil {
		return Result{}, err
	}
	edited := target.WithAttendance(week, status)
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	if status == models.StatusUnmark {
		return Result{Feedback: fmt.Sprintf(MessageUnmarkSuccess, edited.DisplayID(), week), Mutated: true}, nil
	}
	return Result{Feedback: fmt.Sprintf(MessageMarkSuccess, edited.DisplayID(), week, status), Mutated: true}, nil
}
