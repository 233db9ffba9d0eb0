package command

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

func (e *Executor) add(store Store, c Add) (Result, error) {
	if id, ok := c.Person.StudentID(); ok {
		if _, exists := store.FindByStudentID(id); exists {
			return Result{}, appErrors.Clonef(appErrors.ErrConflict, MessageDuplicateAdd, id)
		}
	}
	if err := store.Add(c.Person); err != nil {
		return Result{}, appErrors.Clone(appErrors.ErrConflict, err.Error())
	}
	return Result{Feedback: fmt.Sprintf(MessageAddSuccess, c.Person.DisplayID()), Mutated: true}, nil
}

func (e *Executor) delete(store Store, c Delete) (Result, error) {
	target, err := resolve(store, c.Target, MessageDeleteNotFound)
	if err != nil {
		return Result{}, err
	}
	if err := store.Remove(target); err != nil {
		return Result{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.KindInternal, "failed to delete student")
	}
	return Result{Feedback: fmt.Sprintf(MessageDeleteSuccess, target.DisplayID()), Mutated: true}, nil
}

// edit validates every requested change against the target before replacing
// it, so a failure leaves the roster untouched.
func (e *Executor) edit(store Store, c Edit) (Result, error) {
	target, err := personAt(store, c.Index)
	if err != nil {
		return Result{}, err
	}
	d := c.Descriptor
	f := target.Fields()
	changes := make([]string, 0)

	if d.Name != nil {
		f.Name = *d.Name
		changes = append(changes, "Name: "+d.Name.String())
	}
	if d.Phone != nil {
		f.Phone = *d.Phone
		changes = append(changes, "Phone: "+d.Phone.String())
	}
	if d.Email != nil {
		f.Email = *d.Email
		changes = append(changes, "Email: "+d.Email.String())
	}
	if d.Address != nil {
		f.Address = *d.Address
		changes = append(changes, "Address: "+d.Address.String())
	}
	if d.StudentID != nil {
		if other, exists := store.FindByStudentID(*d.StudentID); exists && !other.SameIdentity(target) {
			return Result{}, appErrors.Clonef(appErrors.ErrConflict, MessageDuplicateEdit, *d.StudentID)
		}
		f.StudentID = *d.StudentID
		changes = append(changes, "Student ID: "+d.StudentID.String())
	}
	if d.ModuleCodes != nil {
		f.ModuleCodes = d.ModuleCodes
		changes = append(changes, "Modules: "+joinModules(d.ModuleCodes))
	}
	if d.Tags != nil {
		f.Tags = d.Tags
		changes = append(changes, "Tags: "+formatTags(d.Tags))
	}
	if d.Consultations != nil {
		f.Consultations = d.Consultations
		slots := make([]string, len(d.Consultations))
		for i, slot := range d.Consultations {
			slots[i] = slot.String()
		}
		changes = append(changes, "Consultations: "+strings.Join(slots, ", "))
	}
	if d.Grades != nil {
		for _, g := range d.Grades {
			if _, ok := f.Grades.FindFold(g.AssignmentName); !ok {
				return Result{}, appErrors.Clonef(appErrors.ErrNotFound, MessageGradeNotFound, g.AssignmentName)
			}
			f.Grades = f.Grades.Put(g)
			changes = append(changes, "Grade "+g.String())
		}
	}
	if d.Attendance != nil {
		entry := *d.Attendance
		f.Attendance = f.Attendance.Mark(entry.Week, entry.Status)
		if entry.Status == models.StatusUnmark {
			changes = append(changes, "Attendance: "+entry.Week.String()+" unmarked")
		} else {
			changes = append(changes, "Attendance: "+entry.Week.String()+" - "+entry.Status.String())
		}
	}
	if d.Remark != nil {
		f.Remark = *d.Remark
		changes = append(changes, "Remark: "+d.Remark.String())
	}

	if len(changes) == 0 {
		return Result{}, appErrors.Clone(appErrors.ErrValidation, MessageNotEdited)
	}

	edited, err := models.NewPerson(f)
	if err != nil {
		return Result{}, appErrors.New(appErrors.ErrValidation.Code, appErrors.KindExecution, "Cannot edit student: "+err.Error())
	}
	if err := replace(store, target, edited); err != nil {
		return Result{}, err
	}
	store.SetPredicate(showAll)

	e.logger.Debug("student edited", zap.String("student", edited.DisplayID()), zap.Int("changes", len(changes)))
	feedback := fmt.Sprintf(MessageEditSuccess, edited.DisplayID()) + "\n" + bulletList(changes)
	return Result{Feedback: feedback, Mutated: true}, nil
}
