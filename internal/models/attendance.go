package models

import (
	"sort"
	"strconv"
	"strings"
)

const (
	MessageWeekConstraints   = "Week should be a number between 1 and 13 (inclusive)"
	MessageStatusConstraints = "Invalid attendance status. Use 'present', 'absent', or 'unmark'."

	MinWeek = 1
	MaxWeek = 13
)

// Week is a teaching week number in [MinWeek, MaxWeek].
type Week int

// NewWeek validates n as a Week.
func NewWeek(n int) (Week, error) {
	if n < MinWeek || n > MaxWeek {
		return 0, constraintError(MessageWeekConstraints)
	}
	return Week(n), nil
}

// ParseWeek validates a decimal week number.
func ParseWeek(raw string) (Week, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, constraintError(MessageWeekConstraints)
	}
	return NewWeek(n)
}

func (w Week) String() string { return "Week " + strconv.Itoa(int(w)) }

// AttendanceStatus is the outcome recorded for a week. StatusUnmark is a
// directive that removes the entry and is never stored.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusUnmark  AttendanceStatus = "unmark"
)

// ParseAttendanceStatus accepts present, absent or unmark in any case.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	switch status := AttendanceStatus(strings.ToLower(raw)); status {
	case StatusPresent, StatusAbsent, StatusUnmark:
		return status, nil
	default:
		return "", constraintError(MessageStatusConstraints)
	}
}

func (s AttendanceStatus) String() string { return string(s) }

// AttendanceRecord maps weeks to a stored status. The zero value is an empty
// record. Every change returns a new record.
type AttendanceRecord struct {
	entries map[Week]AttendanceStatus
}

// NewAttendanceRecord copies entries into a record. Unmark entries are dropped.
func NewAttendanceRecord(entries map[Week]AttendanceStatus) AttendanceRecord {
	record := AttendanceRecord{entries: make(map[Week]AttendanceStatus, len(entries))}
	for week, status := range entries {
		if status == StatusUnmark {
			continue
		}
		record.entries[week] = status
	}
	return record
}

// Mark sets the status for week, or removes it for StatusUnmark. Last write wins.
func (r AttendanceRecord) Mark(week Week, status AttendanceStatus) AttendanceRecord {
	next := make(map[Week]AttendanceStatus, len(r.entries)+1)
	for w, s := range r.entries {
		next[w] = s
	}
	if status == StatusUnmark {
		delete(next, week)
	} else {
		next[week] = status
	}
	return AttendanceRecord{entries: next}
}

// Unmark removes the entry for week if there is one.
func (r AttendanceRecord) Unmark(week Week) AttendanceRecord {
	return r.Mark(week, StatusUnmark)
}

// Status returns the stored status for week.
func (r AttendanceRecord) Status(week Week) (AttendanceStatus, bool) {
	status, ok := r.entries[week]
	return status, ok
}

// Has reports whether week has a recorded status.
func (r AttendanceRecord) Has(week Week) bool {
	_, ok := r.entries[week]
	return ok
}

func (r AttendanceRecord) Len() int { return len(r.entries) }

// Weeks returns the recorded weeks in ascending order.
func (r AttendanceRecord) Weeks() []Week {
	weeks := make([]Week, 0, len(r.entries))
	for week := range r.entries {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })
	return weeks
}

// Entries returns a copy of the underlying map.
func (r AttendanceRecord) Entries() map[Week]AttendanceStatus {
	out := make(map[Week]AttendanceStatus, len(r.entries))
	for w, s := range r.entries {
		out[w] = s
	}
	return out
}

// Equal compares two records entry by entry.
func (r AttendanceRecord) Equal(other AttendanceRecord) bool {
	if len(r.entries) != len(other.entries) {
		return false
	}
	for w, s := range r.entries {
		if other.entries[w] != s {
			return false
		}
	}
	return true
}

// AttendanceSummary counts present weeks against all recorded weeks.
type AttendanceSummary struct {
	Present int
	Total   int
}

// Rate is the present percentage, zero when nothing is recorded.
func (s AttendanceSummary) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Present) * 100 / float64(s.Total)
}

// Summary reports present and total recorded weeks.
func (r AttendanceRecord) Summary() AttendanceSummary {
	summary := AttendanceSummary{Total: len(r.entries)}
	for _, status := range r.entries {
		if status == StatusPresent {
			summary.Present++
		}
	}
	return summary
}
