package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
	ical "github.com/arran4/golang-ical"
)

func TestBuild(t *testing.T) {
	alice := "e1"
	stale := "gone"
	start := time.Date(2025, time.April, 6, 14, 0, 0, 0, time.UTC)
	events := []models.Event{
		{
			ID: "ev1", Title: "Standup", Start: start, End: start.Add(time.Hour),
			Type: models.EventTypeMeeting, AssignedTo: &alice, Status: models.StatusInProgress,
			Priority: 5, Location: "Room 1", RequiredSkills: []string{"React"},
		},
		{
			ID: "ev2", Title: "Orphan", Start: start, End: start.Add(2 * time.Hour),
			Type: models.EventTypeTask, AssignedTo: &stale, Status: models.StatusPending,
		},
	}
	employees := []models.Employee{{ID: "e1", Name: "Alice"}}

	out := Build("Team", events, employees, start)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to parse generated calendar: %v", err)
	}
	vevents := cal.Events()
	if len(vevents) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(vevents))
	}

	first := vevents[0]
	if p := first.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Standup" {
		t.Errorf("Expected summary Standup, got %v", p)
	}
	if got, err := first.GetStartAt(); err != nil || !got.Equal(start) {
		t.Errorf("Expected start %v, got %v (%v)", start, got, err)
	}
	if p := first.GetProperty(ical.ComponentPropertyCategories); p == nil || p.Value != "MEETING" {
		t.Errorf("Expected MEETING category, got %v", p)
	}
	if p := first.GetProperty(ical.ComponentPropertyPriority); p == nil || p.Value != "1" {
		t.Errorf("Expected ical priority 1, got %v", p)
	}
	if p := first.GetProperty(ical.ComponentPropertyStatus); p == nil || p.Value != string(ical.ObjectStatusConfirmed) {
		t.Errorf("Expected CONFIRMED status, got %v", p)
	}
	if p := first.GetProperty(progressProperty); p == nil || p.Value != "IN_PROGRESS" {
		t.Errorf("Expected IN_PROGRESS progress, got %v", p)
	}
	if p := vevents[1].GetProperty(ical.ComponentPropertyStatus); p == nil || p.Value != string(ical.ObjectStatusTentative) {
		t.Errorf("Expected pending event to be TENTATIVE, got %v", p)
	}

	if !strings.Contains(out, "Assigned to: Alice") {
		t.Errorf("Expected assignee name in output:\n%s", out)
	}
	if !strings.Contains(out, "Assigned to: gone") {
		t.Errorf("Expected stale assignee id in output:\n%s", out)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ical.ObjectStatus
	}{
		{models.StatusPending, ical.ObjectStatusTentative},
		{"", ical.ObjectStatusTentative},
		{models.StatusInProgress, ical.ObjectStatusConfirmed},
		{models.StatusCompleted, ical.ObjectStatusConfirmed},
	}
	for _, tt := range tests {
		if got := status(tt.in); got != tt.want {
			t.Errorf("status(%q): Expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	out := Build("", nil, nil, time.Now())
	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Errorf("Expected an empty calendar, got %q", out)
	}
}
