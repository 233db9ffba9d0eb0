package command

import (
	"fmt"
	"strings"

	"github.com/noah-isme/teachmate/internal/models"
)

func (e *Executor) list(store Store, c List) (Result, error) {
	if c.Module == "" {
		store.SetPredicate(showAll)
		return Result{Feedback: MessageListAll}, nil
	}
	module := c.Module
	store.SetPredicate(func(p models.Person) bool { return p.HasModule(module) })
	if len(store.Filtered()) == 0 {
		return Result{Feedback: fmt.Sprintf(MessageListModuleNone, module)}, nil
	}
	return Result{Feedback: fmt.Sprintf(MessageListModule, module)}, nil
}

func (e *Executor) filter(store Store, c Filter) (Result, error) {
	tags := append([]models.Tag(nil), c.Tags...)
	store.SetPredicate(func(p models.Person) bool { return p.HasAllTags(tags) })
	return Result{Feedback: fmt.Sprintf(MessagePersonsListed, len(store.Filtered()))}, nil
}

func (e *Executor) view(store Store, c View) (Result, error) {
	target, err := resolve(store, c.Target, MessageStudentMissing)
	if err != nil {
		return Result{}, err
	}
	store.SetPredicate(func(p models.Person) bool { return p.SameIdentity(target) })
	return Result{Feedback: e.details(target)}, nil
}

// details renders the student block followed by the attendance record.
func (e *Executor) details(p models.Person) string {
	var b strings.Builder
	b.WriteString("=== STUDENT DETAILS ===\n")
	b.WriteString("Name: " + p.Name().String() + "\n")
	if id, ok := p.StudentID(); ok {
		b.WriteString("Student ID: " + id.String() + "\n")
	} else {
		b.WriteString("Student ID: N/A\n")
	}
	b.WriteString("Email: " + p.Email().String() + "\n")
	if codes := p.ModuleCodes(); len(codes) > 0 {
		b.WriteString("Modules: " + joinModules(codes) + "\n")
	}
	if tags := p.Tags(); len(tags) > 0 {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = string(t)
		}
		b.WriteString("Tags: " + strings.Join(names, ", ") + "\n")
	}
	if grades := p.Grades(); grades.Len() > 0 {
		b.WriteString("Grades:\n" + formatGrades(grades.All()) + "\n")
	}
	if remark, ok := p.Remark(); ok {
		b.WriteString("Remark: " + remark.String() + "\n")
	}

	b.WriteString("\n=== ATTENDANCE RECORD ===\n")
	record := p.Attendance()
	if record.Len() == 0 {
		b.WriteString("No attendance recorded yet.\n")
		return b.String()
	}
	for _, week := range record.Weeks() {
		status, _ := record.Status(week)
		symbol := "✗"
		if status == models.StatusPresent {
			symbol = "✓"
		}
		fmt.Fprintf(&b, "%s: %s %s\n", week, symbol, e.title.String(status.String()))
	}
	summary := record.Summary()
	fmt.Fprintf(&b, "\nAttendance Rate: %.1f%% (%d/%d weeks)", summary.Rate(), summary.Present, summary.Total)
	return b.String()
}
