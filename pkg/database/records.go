package database

import (
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
)

func eventRecordFrom(owner string, e models.Event) EventRecord {
	start, end := e.Start, e.End
	rec := EventRecord{
		ID:                     e.ID,
		OwnerID:                owner,
		Title:                  e.Title,
		Description:            e.Description,
		Location:               e.Location,
		Start:                  &start,
		End:                    &end,
		Type:                   string(e.Type),
		RequiredSkills:         nonNil(e.RequiredSkills),
		Status:                 e.Status,
		Priority:               e.Priority,
		Dependencies:           nonNil(e.Dependencies),
		EstimatedDurationHours: e.EstimatedDurationHours,
	}
	if e.IsAssigned() {
		assigned := *e.AssignedTo
		rec.AssignedTo = &assigned
	}
	return rec
}

// toEvent converts a row to its domain form. A missing end takes the start, a
// missing start takes the earlier of now and the end, and a row with neither
// decodes to now. The second result reports whether any time was filled in.
func (r EventRecord) toEvent(now time.Time) (models.Event, bool) {
	e := models.Event{
		ID:                     r.ID,
		Title:                  r.Title,
		Description:            r.Description,
		Location:               r.Location,
		Type:                   models.EventType(r.Type),
		RequiredSkills:         nonNil(r.RequiredSkills),
		Status:                 r.Status,
		Priority:               r.Priority,
		Dependencies:           nonNil(r.Dependencies),
		EstimatedDurationHours: r.EstimatedDurationHours,
	}
	if r.AssignedTo != nil && *r.AssignedTo != "" {
		assigned := *r.AssignedTo
		e.AssignedTo = &assigned
	}

	hasStart := r.Start != nil && !r.Start.IsZero()
	hasEnd := r.End != nil && !r.End.IsZero()
	switch {
	case hasStart && hasEnd:
		e.Start, e.End = *r.Start, *r.End
	case hasStart:
		e.Start, e.End = *r.Start, *r.Start
	case hasEnd:
		e.End = *r.End
		e.Start = now
		if e.End.Before(now) {
			e.Start = e.End
		}
	default:
		e.Start, e.End = now, now
	}
	substituted := !hasStart || !hasEnd
	return e, substituted
}

func employeeRecordFrom(owner string, e models.Employee) EmployeeRecord {
	return EmployeeRecord{
		ID:                   e.ID,
		OwnerID:              owner,
		Name:                 e.Name,
		Email:                e.Email,
		Skills:               append([]models.Skill{}, e.Skills...),
		AvailabilityPatterns: append([]models.AvailabilityPattern{}, e.AvailabilityPatterns...),
		EmploymentType:       e.EmploymentType,
		ShiftPreference:      e.ShiftPreference,
		Color:                e.Color,
		Notes:                e.Notes,
	}
}

func (r EmployeeRecord) toEmployee() models.Employee {
	return models.Employee{
		ID:                   r.ID,
		Name:                 r.Name,
		Email:                r.Email,
		Skills:               append([]models.Skill{}, r.Skills...),
		AvailabilityPatterns: append([]models.AvailabilityPattern{}, r.AvailabilityPatterns...),
		EmploymentType:       r.EmploymentType,
		ShiftPreference:      r.ShiftPreference,
		Color:                r.Color,
		Notes:                r.Notes,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
