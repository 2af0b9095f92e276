package models

import "time"

// EventType classifies a calendar entry
type EventType string

const (
	EventTypeTask    EventType = "task"
	EventTypeMeeting EventType = "meeting"
	EventTypeWorkout EventType = "workout"
)

// Valid reports whether t is one of the known event types
func (t EventType) Valid() bool {
	switch t {
	case EventTypeTask, EventTypeMeeting, EventTypeWorkout:
		return true
	}
	return false
}

// Color returns the fallback display colour for events of this type
func (t EventType) Color() string {
	switch t {
	case EventTypeWorkout:
		return "#fbbc04"
	case EventTypeMeeting:
		return "#4285f4"
	case EventTypeTask:
		return "#34a853"
	}
	return "#f4b400"
}

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	DefaultPriority = 3
	MinPriority     = 1
	MaxPriority     = 5
)

// Event represents a time-bound task or meeting on the calendar
type Event struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description,omitempty"`
	Location               string    `json:"location,omitempty"`
	Start                  time.Time `json:"start"`
	End                    time.Time `json:"end"`
	Type                   EventType `json:"type"`
	AssignedTo             *string   `json:"assigned_to"`
	RequiredSkills         []string  `json:"required_skills"`
	Status                 string    `json:"status"`
	Priority               int       `json:"priority"`
	Dependencies           []string  `json:"dependencies"`
	EstimatedDurationHours float64   `json:"estimated_duration_hours,omitempty"`
}

// Duration is the span between start and end
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsAssigned reports whether an employee is bound to the event
func (e Event) IsAssigned() bool {
	return e.AssignedTo != nil && *e.AssignedTo != ""
}

// Skill is a named capability held by an employee
type Skill struct {
	SkillName string `json:"skill_name" yaml:"skill_name"`
	Level     int    `json:"level" yaml:"level"`
}

// AvailabilityType distinguishes recurring weekly patterns from one-off dates
type AvailabilityType string

const (
	AvailabilityWeekly       AvailabilityType = "weekly"
	AvailabilityDateSpecific AvailabilityType = "date_specific"
)

// AvailabilityPattern describes when an employee can work. It is carried for
// display only and is not consulted when assigning.
type AvailabilityPattern struct {
	Type        AvailabilityType `json:"type" yaml:"type"`
	Days        []int            `json:"days,omitempty" yaml:"days,omitempty"`
	Date        string           `json:"date,omitempty" yaml:"date,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty" yaml:"is_available,omitempty"`
	StartTime   string           `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime     string           `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

// Employee represents a person who can be assigned to events
type Employee struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Email                string                `json:"email,omitempty"`
	Skills               []Skill               `json:"skills"`
	AvailabilityPatterns []AvailabilityPattern `json:"availability_patterns"`
	EmploymentType       string                `json:"employment_type"`
	ShiftPreference      string                `json:"shift_preference"`
	Color                string                `json:"color,omitempty"`
	Notes                string                `json:"notes,omitempty"`
}

// SkillNames returns the employee's skill names in declaration order
func (e Employee) SkillNames() []string {
	names := make([]string, 0, len(e.Skills))
	for _, s := range e.Skills {
		names = append(names, s.SkillName)
	}
	return names
}

// EventInput is the data structure for event authoring endpoints
type EventInput struct {
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	Location               string     `json:"location"`
	Start                  *time.Time `json:"start"`
	End                    *time.Time `json:"end"`
	Type                   EventType  `json:"type"`
	AssignedTo             *string    `json:"assigned_to"`
	RequiredSkills         []string   `json:"required_skills"`
	Status                 string     `json:"status"`
	Priority               int        `json:"priority"`
	Dependencies           []string   `json:"dependencies"`
	EstimatedDurationHours float64    `json:"estimated_duration_hours"`
}

// EmployeeInput is the data structure for employee authoring endpoints
type EmployeeInput struct {
	Name                 string                `json:"name"`
	Email                string                `json:"email"`
	Skills               []Skill               `json:"skills"`
	AvailabilityPatterns []AvailabilityPattern `json:"availability_patterns"`
	EmploymentType       string                `json:"employment_type"`
	ShiftPreference      string                `json:"shift_preference"`
	Color                string                `json:"color"`
	Notes                string                `json:"notes"`
}
