package scheduler

import "time"

// Phase is the state of a drag session
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseRangeDragging Phase = "range_dragging"
	PhaseItemDragging  Phase = "item_dragging"
	PhaseResolved      Phase = "resolved"
)

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether day falls inside the range
func (r DateRange) Contains(day time.Time) bool {
	return CompareDay(r.Start, day) <= 0 && CompareDay(day, r.End) <= 0
}

// Payload identifies the item carried by an item drag
type Payload struct {
	EventID    string `json:"event_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// Empty reports whether the payload carries nothing
func (p Payload) Empty() bool {
	return p.EventID == "" && p.EmployeeID == ""
}

// SessionState is a read-only view of a drag session
type SessionState struct {
	Phase   Phase      `json:"phase"`
	Anchor  *time.Time `json:"anchor,omitempty"`
	Cursor  *time.Time `json:"cursor,omitempty"`
	Payload *Payload   `json:"payload,omitempty"`
}

// DragSession tracks one pointer interaction from press to release.
// A session is not safe for concurrent use.
type DragSession struct {
	phase     Phase
	anchor    time.Time
	cursor    time.Time
	hasCursor bool
	payload   Payload
}

// NewDragSession returns an idle session
func NewDragSession() *DragSession {
	return &DragSession{phase: PhaseIdle}
}

// Phase returns the session's current phase
func (s *DragSession) Phase() Phase {
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

// Begin starts a range drag anchored on the pressed day, discarding any prior interaction
func (s *DragSession) Begin(anchor time.Time) {
	s.reset()
	s.phase = PhaseRangeDragging
	s.anchor = StartOfDay(anchor)
}

// Carry starts an item drag for payload, discarding any prior interaction
func (s *DragSession) Carry(payload Payload) {
	s.reset()
	s.phase = PhaseItemDragging
	s.payload = payload
}

// Update moves the cursor of a range drag. It reports false when no range drag is active.
func (s *DragSession) Update(cursor time.Time) bool {
	if s.phase != PhaseRangeDragging {
		return false
	}
	s.cursor = StartOfDay(cursor)
	s.hasCursor = true
	return true
}

// Range returns the candidate range once the cursor has moved
func (s *DragSession) Range() (DateRange, bool) {
	if s.phase != PhaseRangeDragging || !s.hasCursor {
		return DateRange{}, false
	}
	if s.cursor.Before(s.anchor) {
		return DateRange{Start: s.cursor, End: s.anchor}, true
	}
	return DateRange{Start: s.anchor, End: s.cursor}, true
}

// CarriedPayload returns the payload of an active item drag
func (s *DragSession) CarriedPayload() (Payload, bool) {
	if s.phase != PhaseItemDragging {
		return Payload{}, false
	}
	return s.payload, true
}

// End resolves a range drag. It reports false when the drag never left the anchor
// or no range drag was active; in both cases nothing should be created.
func (s *DragSession) End() (DateRange, bool) {
	r, ok := s.Range()
	s.reset()
	if ok {
		s.phase = PhaseResolved
	}
	return r, ok
}

// Release returns a resolved session to idle
func (s *DragSession) Release() {
	s.reset()
}

// Cancel discards the interaction without emitting anything
func (s *DragSession) Cancel() {
	s.reset()
}

// State returns a snapshot of the session for display
func (s *DragSession) State() SessionState {
	state := SessionState{Phase: s.Phase()}
	switch s.phase {
	case PhaseRangeDragging:
		anchor := s.anchor
		state.Anchor = &anchor
		if s.hasCursor {
			cursor := s.cursor
			state.Cursor = &cursor
		}
	case PhaseItemDragging:
		payload := s.payload
		state.Payload = &payload
	}
	return state
}

func (s *DragSession) reset() {
	*s = DragSession{phase: PhaseIdle}
}
