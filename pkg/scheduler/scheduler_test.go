package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
)

func newTestScheduler() *Scheduler {
	return New(WithLocation(time.UTC), WithClock(func() time.Time {
		return at(2025, 4, 15, 13, 30)
	}))
}

func strPtr(s string) *string { return &s }

func TestScheduler_Today(t *testing.T) {
	s := newTestScheduler()
	if got := s.Today(); !got.Equal(day(2025, time.April, 15)) {
		t.Errorf("Expected Apr 15, got %v", got)
	}
}

func TestScheduler_EndDragCreatesRangeTask(t *testing.T) {
	s := newTestScheduler()
	session := NewDragSession()
	s.BeginDrag(session, day(2025, time.April, 13))
	s.UpdateDrag(session, day(2025, time.April, 10))

	intent, ok, err := s.EndDrag(session)
	if err != nil || !ok {
		t.Fatalf("Expected an intent, got ok=%v err=%v", ok, err)
	}
	if intent.Kind != IntentCreate {
		t.Errorf("Expected create intent, got %s", intent.Kind)
	}
	e := intent.Event
	if !e.Start.Equal(at(2025, 4, 10, 9, 0)) || !e.End.Equal(at(2025, 4, 13, 17, 0)) {
		t.Errorf("Expected Apr 10 09:00 - Apr 13 17:00, got %v - %v", e.Start, e.End)
	}
	if e.Title != "New Task" || e.Type != models.EventTypeTask || e.Status != models.StatusPending || e.Priority != models.DefaultPriority {
		t.Errorf("Unexpected draft defaults: %+v", e)
	}
	if e.IsAssigned() {
		t.Errorf("Expected range task to be unassigned")
	}
	if session.Phase() != PhaseIdle {
		t.Errorf("Expected session released, got %s", session.Phase())
	}
}

func TestScheduler_EndDragWithoutMovement(t *testing.T) {
	s := newTestScheduler()
	session := NewDragSession()
	s.BeginDrag(session, day(2025, time.April, 10))
	if _, ok, err := s.EndDrag(session); ok || err != nil {
		t.Errorf("Expected no intent, got ok=%v err=%v", ok, err)
	}
}

func TestScheduler_CancelDragEmitsNothing(t *testing.T) {
	s := newTestScheduler()
	session := NewDragSession()
	s.BeginDrag(session, day(2025, time.April, 10))
	s.UpdateDrag(session, day(2025, time.April, 12))
	s.CancelDrag(session)
	if _, ok, _ := s.EndDrag(session); ok {
		t.Errorf("Expected cancelled session to resolve nothing")
	}
}

func TestScheduler_DropMovesEventPreservingDuration(t *testing.T) {
	s := newTestScheduler()
	event := models.Event{
		ID:    "ev1",
		Title: "Standup",
		Start: at(2025, 4, 6, 14, 0),
		End:   at(2025, 4, 7, 15, 30),
		Type:  models.EventTypeMeeting,
	}
	intent, err := s.Drop(nil, DropTarget{Date: day(2025, time.April, 20)}, Payload{EventID: "ev1"}, []models.Event{event}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if intent.Kind != IntentMove || intent.EventID != "ev1" {
		t.Errorf("Expected move of ev1, got %+v", intent)
	}
	if !intent.Event.Start.Equal(at(2025, 4, 20, 14, 0)) {
		t.Errorf("Expected start Apr 20 14:00, got %v", intent.Event.Start)
	}
	if intent.Event.Duration() != event.Duration() {
		t.Errorf("Expected duration %v, got %v", event.Duration(), intent.Event.Duration())
	}
}

func TestScheduler_DropRejectsZeroDurationMove(t *testing.T) {
	s := newTestScheduler()
	event := models.Event{ID: "ev1", Start: at(2025, 4, 6, 14, 0), End: at(2025, 4, 6, 14, 0)}
	_, err := s.Drop(nil, DropTarget{Date: day(2025, time.April, 8)}, Payload{EventID: "ev1"}, []models.Event{event}, nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.FieldErrors["time"] == "" {
		t.Errorf("Expected time validation error, got %v", err)
	}
}

func TestScheduler_DropAssignsQualifiedEmployee(t *testing.T) {
	s := newTestScheduler()
	event := models.Event{ID: "ev1", Start: at(2025, 4, 6, 9, 0), End: at(2025, 4, 6, 12, 0), RequiredSkills: []string{"React"}}
	employee := employeeWith("React", "JavaScript")

	intent, err := s.Drop(nil, DropTarget{Date: day(2025, time.April, 6), EventID: "ev1"}, Payload{EmployeeID: employee.ID}, []models.Event{event}, []models.Employee{employee})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if intent.Kind != IntentAssign || !intent.Event.IsAssigned() || *intent.Event.AssignedTo != employee.ID {
		t.Errorf("Expected assign to %s, got %+v", employee.ID, intent)
	}
	if !intent.Event.Start.Equal(event.Start) {
		t.Errorf("Expected assignment to keep the event time")
	}
}

func TestScheduler_DropRejectsUnqualifiedEmployee(t *testing.T) {
	s := newTestScheduler()
	event := models.Event{ID: "ev1", Start: at(2025, 4, 6, 9, 0), End: at(2025, 4, 6, 12, 0), RequiredSkills: []string{"React", "JavaScript"}}
	employee := models.Employee{ID: "e2", Name: "Bob", Skills: []models.Skill{{SkillName: "React", Level: 4}}}

	_, err := s.Drop(nil, DropTarget{EventID: "ev1"}, Payload{EmployeeID: "e2"}, []models.Event{event}, []models.Employee{employee})
	var rErr *RejectionError
	if !errors.As(err, &rErr) {
		t.Fatalf("Expected rejection, got %v", err)
	}
	if len(rErr.Missing) != 1 || rErr.Missing[0] != "JavaScript" {
		t.Errorf("Expected missing [JavaScript], got %v", rErr.Missing)
	}
	want := "employee Bob does not have the required skills: React, JavaScript"
	if rErr.Error() != want {
		t.Errorf("Expected %q, got %q", want, rErr.Error())
	}
}

func TestScheduler_DropEmployeeOnBareDayDraftsTask(t *testing.T) {
	s := newTestScheduler()
	employee := employeeWith("Go")
	session := NewDragSession()
	session.Carry(Payload{EmployeeID: employee.ID})

	intent, err := s.Drop(session, DropTarget{Date: at(2025, 4, 22, 16, 0)}, Payload{}, nil, []models.Employee{employee})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if intent.Kind != IntentCreateWithAssignment {
		t.Errorf("Expected create_with_assignment, got %s", intent.Kind)
	}
	e := intent.Event
	if e.Title != "Task for Alice" || !e.Start.Equal(at(2025, 4, 22, 9, 0)) || !e.End.Equal(at(2025, 4, 22, 10, 0)) {
		t.Errorf("Unexpected draft: %+v", e)
	}
	if !e.IsAssigned() || *e.AssignedTo != employee.ID {
		t.Errorf("Expected draft assigned to %s", employee.ID)
	}
	if session.Phase() != PhaseIdle {
		t.Errorf("Expected session released, got %s", session.Phase())
	}
}

func TestScheduler_DropErrors(t *testing.T) {
	s := newTestScheduler()
	events := []models.Event{{ID: "ev1", Start: at(2025, 4, 6, 9, 0), End: at(2025, 4, 6, 10, 0)}}
	employees := []models.Employee{employeeWith()}

	if _, err := s.Drop(nil, DropTarget{}, Payload{}, events, employees); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}
	if _, err := s.Drop(nil, DropTarget{}, Payload{EventID: "missing"}, events, employees); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown event, got %v", err)
	}
	if _, err := s.Drop(nil, DropTarget{}, Payload{EmployeeID: "missing"}, events, employees); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown employee, got %v", err)
	}
	if _, err := s.Drop(nil, DropTarget{EventID: "missing"}, Payload{EmployeeID: "e1"}, events, employees); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown target, got %v", err)
	}
}

func TestScheduler_EmptyDropLeavesRangeDragActive(t *testing.T) {
	s := newTestScheduler()
	session := NewDragSession()
	s.BeginDrag(session, day(2025, time.April, 10))
	s.UpdateDrag(session, day(2025, time.April, 12))

	if _, err := s.Drop(session, DropTarget{Date: day(2025, time.April, 11)}, Payload{}, nil, nil); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}
	if session.Phase() != PhaseRangeDragging {
		t.Fatalf("Expected range drag to survive an empty drop, got %s", session.Phase())
	}
	intent, ok, err := s.EndDrag(session)
	if err != nil || !ok || !intent.Event.End.Equal(at(2025, 4, 12, 17, 0)) {
		t.Errorf("Expected the range task to still resolve, got %+v ok=%v err=%v", intent.Event, ok, err)
	}
}

func TestScheduler_TryAssignDoesNotMutateInput(t *testing.T) {
	s := newTestScheduler()
	event := models.Event{ID: "ev1", AssignedTo: strPtr("old"), RequiredSkills: []string{"React"}}
	if _, err := s.TryAssign(event, employeeWith("React")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *event.AssignedTo != "old" {
		t.Errorf("Expected the input event to be untouched, got %s", *event.AssignedTo)
	}
}

func TestScheduler_PlaceEventsUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	s := New(WithLocation(loc))
	cells := s.BuildView(time.Date(2025, time.April, 6, 12, 0, 0, 0, loc), ViewDay)
	// 02:00 UTC on Apr 7 is still Apr 6 locally
	events := []models.Event{{ID: "late", Start: at(2025, 4, 7, 2, 0), End: at(2025, 4, 7, 3, 0)}}
	placed := s.PlaceEvents(cells, events, 100, nil)
	if len(placed) != 1 || len(placed[0].SingleDay) != 1 {
		t.Errorf("Expected the event on the local day, got %+v", placed)
	}
}
