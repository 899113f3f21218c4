package export

import (
	"time"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Filter narrows an export to a submission date range, both ends inclusive,
// and optionally to one status.
type Filter struct {
	From   time.Time
	To     time.Time
	Status *domain.Status
}

// NewFilter requires both bounds.
func NewFilter(from, to *time.Time, status *domain.Status) (*Filter, error) {
	ve := &domain.ValidationError{}
	if from == nil {
		ve.Add("from", "is required")
	}
	if to == nil {
		ve.Add("to", "is required")
	}
	if status != nil && !status.Valid() {
		ve.Add("status", "is invalid")
	}
	if ve.HasErrors() {
		return nil, ve
	}
	if to.Before(*from) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}
	return &Filter{From: *from, To: *to, Status: status}, nil
}

// ParseFilter reads YYYY-MM-DD bounds. The upper bound covers the whole day.
func ParseFilter(from, to, status string) (*Filter, error) {
	ve := &domain.ValidationError{}
	var fromTime, toTime *time.Time

	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.Local)
		if err != nil {
			ve.Add("from", "must be a date in YYYY-MM-DD format")
		} else {
			fromTime = &t
		}
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.Local)
		if err != nil {
			ve.Add("to", "must be a date in YYYY-MM-DD format")
		} else {
			end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			toTime = &end
		}
	}

	var st *domain.Status
	if status != "" {
		s := domain.Status(status)
		st = &s
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return NewFilter(fromTime, toTime, st)
}

func (f *Filter) Match(app *domain.Application) bool {
	if app.SubmittedAt.Before(f.From) || app.SubmittedAt.After(f.To) {
		return false
	}
	if f.Status != nil && app.Status != *f.Status {
		return false
	}
	return true
}
