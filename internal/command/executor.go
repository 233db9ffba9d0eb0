package command

import (
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// Store is the roster a command executes against. Commands only replace
// whole Person values; they never mutate one in place.
type Store interface {
	Persons() []models.Person
	Filtered() []models.Person
	FindByStudentID(id models.StudentID) (models.Person, bool)
	Add(p models.Person) error
	Replace(target, edited models.Person) error
	Remove(target models.Person) error
	SetPersons(persons []models.Person) error
	SetPredicate(pred func(models.Person) bool)
	Clear()
}

// Executor applies commands to a Store.
type Executor struct {
	logger *zap.Logger
	title  cases.Caser
}

// NewExecutor constructs an Executor.
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger, title: cases.Title(language.English)}
}

// Execute runs cmd against store. A failed command leaves store unchanged.
func (e *Executor) Execute(store Store, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Add:
		return e.add(store, c)
	case Delete:
		return e.delete(store, c)
	case Edit:
		return e.edit(store, c)
	case Tag:
		return e.tag(store, c)
	case Untag:
		return e.untag(store, c)
	case Grade:
		return e.grade(store, c)
	case DeleteGrade:
		return e.deleteGrade(store, c)
	case Attendance:
		return e.attendance(store, c)
	case Remark:
		return e.remark(store, c)
	case View:
		return e.view(store, c)
	case List:
		return e.list(store, c)
	case Filter:
		return e.filter(store, c)
	case Clear:
		store.Clear()
		return Result{Feedback: MessageClearSuccess, Mutated: true}, nil
	case Help:
		return Result{Feedback: MessageHelp, ShowHelp: true}, nil
	case Exit:
		return Result{Feedback: MessageExit, Exit: true}, nil
	default:
		return Result{}, appErrors.Clonef(appErrors.ErrInternal, "unsupported command %T", cmd)
	}
}

// personAt resolves a 1-based index into the displayed list.
func personAt(store Store, index int) (models.Person, error) {
	filtered := store.Filtered()
	if index < 1 || index > len(filtered) {
		return models.Person{}, appErrors.Clone(appErrors.ErrInvalidIndex, MessageInvalidIndex)
	}
	return filtered[index-1], nil
}

// resolve finds the person named by target. notFound is a format string
// taking the student ID.
func resolve(store Store, target Target, notFound string) (models.Person, error) {
	if target.ByIndex() {
		return personAt(store, target.Index)
	}
	p, ok := store.FindByStudentID(target.StudentID)
	if !ok {
		return models.Person{}, appErrors.Clonef(appErrors.ErrNotFound, notFound, target.StudentID)
	}
	return p, nil
}

func replace(store Store, target, edited models.Person) error {
	if err := store.Replace(target, edited); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.KindInternal, "failed to update student")
	}
	return nil
}

func showAll(models.Person) bool { return true }
