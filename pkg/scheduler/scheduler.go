package scheduler

import (
	"fmt"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
)

const (
	rangeTaskTitle = "New Task"

	rangeStartHour = 9
	rangeEndHour   = 17
	draftStartHour = 9
	draftEndHour   = 10
)

// Scheduler composes grid building, placement, drag handling and skill checks
type Scheduler struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLocation sets the time zone calendar days are computed in
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new scheduler instance
func New(opts ...Option) *Scheduler {
	s := &Scheduler{loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the scheduler's display time zone
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Today returns the current calendar day in the display time zone
func (s *Scheduler) Today() time.Time {
	return StartOfDay(s.now().In(s.loc))
}

// BuildView returns the grid for date in the given view
func (s *Scheduler) BuildView(date time.Time, view View) []DayCell {
	return BuildGrid(date.In(s.loc), view)
}

// PlaceEvents positions events on cells, flagging cells covered by preview
func (s *Scheduler) PlaceEvents(cells []DayCell, events []models.Event, cellWidth float64, preview *DateRange) []DayPlacement {
	return PlaceEvents(cells, s.localize(events), cellWidth, preview)
}

// BeginDrag starts a range drag on anchor
func (s *Scheduler) BeginDrag(session *DragSession, anchor time.Time) {
	session.Begin(anchor.In(s.loc))
}

// UpdateDrag moves the range drag cursor
func (s *Scheduler) UpdateDrag(session *DragSession, cursor time.Time) bool {
	return session.Update(cursor.In(s.loc))
}

// CancelDrag discards the session without emitting an intent
func (s *Scheduler) CancelDrag(session *DragSession) {
	session.Cancel()
}

// EndDrag resolves a range drag into a create intent for a 09:00-17:00 task on
// the range's boundary days. It reports false when nothing should be created.
func (s *Scheduler) EndDrag(session *DragSession) (Intent, bool, error) {
	r, ok := session.End()
	defer session.Release()
	if !ok {
		return Intent{}, false, nil
	}

	draft := models.Event{
		Title:          rangeTaskTitle,
		Start:          AtClock(r.Start, rangeStartHour, 0),
		End:            AtClock(r.End, rangeEndHour, 0),
		Type:           models.EventTypeTask,
		RequiredSkills: []string{},
		Dependencies:   []string{},
		Status:         models.StatusPending,
		Priority:       models.DefaultPriority,
	}
	if err := validateSpan(draft); err != nil {
		return Intent{}, false, err
	}
	return Intent{Kind: IntentCreate, Event: draft}, true, nil
}

// DropTarget is where an item was released. EventID is set when the pointer
// was released over an existing event.
type DropTarget struct {
	Date    time.Time
	EventID string
}

// Drop resolves an item drag. An empty payload falls back to the item carried
// by session, which may be nil. An item drag in session is released whatever
// the outcome; a range drag in progress is left alone.
func (s *Scheduler) Drop(session *DragSession, target DropTarget, payload Payload, events []models.Event, employees []models.Employee) (Intent, error) {
	if session != nil && session.Phase() == PhaseItemDragging {
		if payload.Empty() {
			payload, _ = session.CarriedPayload()
		}
		defer session.Release()
	}

	day := StartOfDay(target.Date.In(s.loc))
	switch {
	case payload.EventID != "":
		event, ok := findEvent(events, payload.EventID)
		if !ok {
			return Intent{}, fmt.Errorf("event %s: %w", payload.EventID, ErrNotFound)
		}
		return s.move(event, day)
	case payload.EmployeeID != "":
		employee, ok := findEmployee(employees, payload.EmployeeID)
		if !ok {
			return Intent{}, fmt.Errorf("employee %s: %w", payload.EmployeeID, ErrNotFound)
		}
		if target.EventID != "" {
			event, ok := findEvent(events, target.EventID)
			if !ok {
				return Intent{}, fmt.Errorf("event %s: %w", target.EventID, ErrNotFound)
			}
			return s.TryAssign(event, employee)
		}
		return s.draftFor(employee, day)
	}
	return Intent{}, ErrEmptyPayload
}

// TryAssign binds employee to event when the employee holds every required skill
func (s *Scheduler) TryAssign(event models.Event, employee models.Employee) (Intent, error) {
	if missing := MissingSkills(employee, event.RequiredSkills); len(missing) > 0 {
		return Intent{}, &RejectionError{
			EmployeeID:   employee.ID,
			EmployeeName: employee.Name,
			Required:     append([]string(nil), event.RequiredSkills...),
			Missing:      missing,
		}
	}
	assigned := cloneEvent(event)
	id := employee.ID
	assigned.AssignedTo = &id
	return Intent{Kind: IntentAssign, EventID: event.ID, Event: assigned}, nil
}

func (s *Scheduler) move(event models.Event, day time.Time) (Intent, error) {
	moved := cloneEvent(event)
	moved.Start = WithTimeOf(day, event.Start)
	moved.End = moved.Start.Add(event.Duration())
	if err := validateSpan(moved); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentMove, EventID: event.ID, Event: moved}, nil
}

func (s *Scheduler) draftFor(employee models.Employee, day time.Time) (Intent, error) {
	name := employee.Name
	if name == "" {
		name = employee.ID
	}
	draft := models.Event{
		Title:          "Task for " + name,
		Start:          AtClock(day, draftStartHour, 0),
		End:            AtClock(day, draftEndHour, 0),
		Type:           models.EventTypeTask,
		RequiredSkills: []string{},
		Dependencies:   []string{},
		Status:         models.StatusPending,
		Priority:       models.DefaultPriority,
	}
	intent, err := s.TryAssign(draft, employee)
	if err != nil {
		return Intent{}, err
	}
	if err := validateSpan(intent.Event); err != nil {
		return Intent{}, err
	}
	intent.Kind = IntentCreateWithAssignment
	return intent, nil
}

func (s *Scheduler) localize(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	for i, e := range events {
		e.Start = e.Start.In(s.loc)
		e.End = e.End.In(s.loc)
		out[i] = e
	}
	return out
}

// validateSpan rejects proposals whose end is not after their start
func validateSpan(e models.Event) error {
	if e.End.After(e.Start) {
		return nil
	}
	vErr := &ValidationError{}
	vErr.Add("time", "end must be after start")
	return vErr
}

func findEvent(events []models.Event, id string) (models.Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func findEmployee(employees []models.Employee, id string) (models.Employee, bool) {
	for _, e := range employees {
		if e.ID == id {
			return e, true
		}
	}
	return models.Employee{}, false
}
