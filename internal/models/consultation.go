package models

import "time"

const (
	// ConsultationStorageLayout is the ISO-8601 local date-time used on disk.
	ConsultationStorageLayout = "2006-01-02T15:04"
	// ConsultationDisplayLayout is how consultations are shown to the user.
	ConsultationDisplayLayout = "02/01/2006 15:04"
)

// Consultation is a scheduled meeting slot. It carries no time zone; times are
// read as local wall-clock values.
type Consultation struct {
	at time.Time
}

// NewConsultation wraps at, truncated to the minute.
func NewConsultation(at time.Time) Consultation {
	return Consultation{at: at.Truncate(time.Minute)}
}

// ParseStoredConsultation reads the storage layout. Seconds are accepted but dropped.
func ParseStoredConsultation(raw string) (Consultation, error) {
	at, err := time.ParseInLocation(ConsultationStorageLayout, raw, time.Local)
	if err != nil {
		at, err = time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
		if err != nil {
			return Consultation{}, err
		}
	}
	return NewConsultation(at), nil
}

func (c Consultation) Time() time.Time { return c.at }

// Equal compares the wall-clock instants.
func (c Consultation) Equal(other Consultation) bool { return c.at.Equal(other.at) }

// StorageString renders the storage layout.
func (c Consultation) StorageString() string { return c.at.Format(ConsultationStorageLayout) }

func (c Consultation) String() string { return c.at.Format(ConsultationDisplayLayout) }
