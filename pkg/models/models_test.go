package models

import (
	"testing"
	"time"
)

func TestEventTypeColor(t *testing.T) {
	tests := []struct {
		typ   EventType
		valid bool
		color string
	}{
		{EventTypeTask, true, "#34a853"},
		{EventTypeMeeting, true, "#4285f4"},
		{EventTypeWorkout, true, "#fbbc04"},
		{"party", false, "#f4b400"},
	}
	for _, tt := range tests {
		if tt.typ.Valid() != tt.valid {
			t.Errorf("Expected Valid()=%v for %q", tt.valid, tt.typ)
		}
		if got := tt.typ.Color(); got != tt.color {
			t.Errorf("Expected colour %s for %q, got %s", tt.color, tt.typ, got)
		}
	}
}

func TestEventHelpers(t *testing.T) {
	start := time.Date(2025, time.April, 6, 14, 0, 0, 0, time.UTC)
	e := Event{Start: start, End: start.Add(90 * time.Minute)}
	if e.Duration() != 90*time.Minute {
		t.Errorf("Expected 90m, got %v", e.Duration())
	}
	if e.IsAssigned() {
		t.Errorf("Expected unassigned")
	}
	empty := ""
	e.AssignedTo = &empty
	if e.IsAssigned() {
		t.Errorf("Expected an empty id to count as unassigned")
	}

	emp := Employee{Skills: []Skill{{SkillName: "React"}, {SkillName: "Go"}}}
	if names := emp.SkillNames(); len(names) != 2 || names[1] != "Go" {
		t.Errorf("Unexpected skill names %v", names)
	}
}
