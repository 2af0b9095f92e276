package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/arnavshah/shift-calendar-go/pkg/database"
)

const sample = `
user:
  username: demo
  password: demo
employees:
  - key: alice
    name: Alice
    skills:
      - skill_name: React
        level: 4
      - skill_name: JavaScript
        level: 3
    availability_patterns:
      - type: weekly
        days: [1, 2, 3]
  - name: Bob
events:
  - title: Sprint review
    start: 2025-04-06T14:00:00Z
    end: 2025-04-06T15:00:00Z
    type: meeting
    required_skills: [React]
    assigned_to: alice
  - title: Inventory
    start: 2025-04-08T09:00:00Z
    end: 2025-04-10T17:00:00Z
`

func TestParseAndApply(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.User == nil || f.User.Username != "demo" {
		t.Errorf("Expected demo user, got %+v", f.User)
	}
	if len(f.Employees) != 2 || len(f.Employees[0].Skills) != 2 || f.Employees[0].Skills[0].Level != 4 {
		t.Fatalf("Unexpected employees: %+v", f.Employees)
	}

	db, err := database.InitDB("", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	store := database.NewStore(db, nil)
	ctx := context.Background()

	res, err := Apply(ctx, store, "u1", f)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Employees != 2 || res.Events != 2 {
		t.Errorf("Expected 2 employees and 2 events, got %+v", res)
	}

	employees, _ := store.ListEmployees(ctx, "u1")
	events, _ := store.ListEvents(ctx, "u1")
	var aliceID string
	for _, e := range employees {
		if e.Name == "Alice" {
			aliceID = e.ID
		}
		if e.Name == "Bob" && (e.EmploymentType != "unknown" || e.ShiftPreference != "any") {
			t.Errorf("Expected employee defaults, got %+v", e)
		}
	}
	if len(events) != 2 || !events[0].IsAssigned() || *events[0].AssignedTo != aliceID {
		t.Errorf("Expected the first event assigned to Alice, got %+v", events)
	}
	if events[1].Type != "task" || events[1].Priority != 3 || events[1].Status != "pending" {
		t.Errorf("Expected event defaults, got %+v", events[1])
	}
}

func TestApply_RejectsBadEvents(t *testing.T) {
	db, _ := database.InitDB("", ":memory:")
	store := database.NewStore(db, nil)

	f, _ := Parse(strings.NewReader(`
events:
  - title: Backwards
    start: 2025-04-06T14:00:00Z
    end: 2025-04-06T13:00:00Z
`))
	if _, err := Apply(context.Background(), store, "u1", f); err == nil || !strings.Contains(err.Error(), "end must be after start") {
		t.Errorf("Expected a time error, got %v", err)
	}

	f, _ = Parse(strings.NewReader(`
events:
  - title: Orphan
    start: 2025-04-06T14:00:00Z
    end: 2025-04-06T15:00:00Z
    assigned_to: nobody
`))
	if _, err := Apply(context.Background(), store, "u1", f); err == nil || !strings.Contains(err.Error(), "unknown employee") {
		t.Errorf("Expected an unknown employee error, got %v", err)
	}
}

func TestParse_UnknownFields(t *testing.T) {
	if _, err := Parse(strings.NewReader("nonsense: true\n")); err == nil {
		t.Errorf("Expected unknown top level keys to be rejected")
	}
}
