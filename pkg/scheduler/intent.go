package scheduler

import "github.com/arnavshah/shift-calendar-go/pkg/models"

// IntentKind names an operation to hand to the document store
type IntentKind string

const (
	IntentCreate               IntentKind = "create"
	IntentMove                 IntentKind = "move"
	IntentAssign               IntentKind = "assign"
	IntentCreateWithAssignment IntentKind = "create_with_assignment"
	IntentUpdate               IntentKind = "update"
	IntentDelete               IntentKind = "delete"
)

// Intent describes a desired change. Event holds the full proposed record;
// for create kinds its ID is empty and assigned by the store.
type Intent struct {
	Kind    IntentKind   `json:"kind"`
	EventID string       `json:"event_id,omitempty"`
	Event   models.Event `json:"event"`
}

// UpdateIntent replaces the stored fields of event
func UpdateIntent(event models.Event) Intent {
	return Intent{Kind: IntentUpdate, EventID: event.ID, Event: cloneEvent(event)}
}

// DeleteIntent removes the event with the given id
func DeleteIntent(id string) Intent {
	return Intent{Kind: IntentDelete, EventID: id}
}

func cloneEvent(e models.Event) models.Event {
	out := e
	if e.AssignedTo != nil {
		assigned := *e.AssignedTo
		out.AssignedTo = &assigned
	}
	out.RequiredSkills = append([]string(nil), e.RequiredSkills...)
	out.Dependencies = append([]string(nil), e.Dependencies...)
	return out
}
