package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/database"
	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a seed document
type File struct {
	User      *Account   `yaml:"user"`
	Employees []Employee `yaml:"employees"`
	Events    []Event    `yaml:"events"`
}

// Account optionally names the user the data belongs to
type Account struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Employee is a seeded employee. Key lets events refer to it.
type Employee struct {
	Key                  string                       `yaml:"key"`
	Name                 string                       `yaml:"name"`
	Email                string                       `yaml:"email"`
	Skills               []models.Skill               `yaml:"skills"`
	AvailabilityPatterns []models.AvailabilityPattern `yaml:"availability_patterns"`
	EmploymentType       string                       `yaml:"employment_type"`
	ShiftPreference      string                       `yaml:"shift_preference"`
	Color                string                       `yaml:"color"`
}

// Event is a seeded event. AssignedTo refers to an employee key.
type Event struct {
	Title          string    `yaml:"title"`
	Description    string    `yaml:"description"`
	Location       string    `yaml:"location"`
	Start          time.Time `yaml:"start"`
	End            time.Time `yaml:"end"`
	Type           string    `yaml:"type"`
	AssignedTo     string    `yaml:"assigned_to"`
	RequiredSkills []string  `yaml:"required_skills"`
	Status         string    `yaml:"status"`
	Priority       int       `yaml:"priority"`
}

// Result counts what was written
type Result struct {
	Employees int
	Events    int
}

// Parse decodes a seed document
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	return f, nil
}

// ParseFile decodes the seed document at path
func ParseFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Parse(fh)
}

// Apply writes the seed document into owner's collections
func Apply(ctx context.Context, store *database.Store, owner string, f File) (Result, error) {
	var res Result
	ids := make(map[string]string, len(f.Employees))

	for i, e := range f.Employees {
		created, err := store.CreateEmployee(ctx, owner, models.Employee{
			Name:                 e.Name,
			Email:                e.Email,
			Skills:               e.Skills,
			AvailabilityPatterns: e.AvailabilityPatterns,
			EmploymentType:       orDefault(e.EmploymentType, "unknown"),
			ShiftPreference:      orDefault(e.ShiftPreference, "any"),
			Color:                e.Color,
		})
		if err != nil {
			return res, fmt.Errorf("employee %d: %w", i, err)
		}
		key := e.Key
		if key == "" {
			key = e.Name
		}
		ids[key] = created.ID
		res.Employees++
	}

	for i, e := range f.Events {
		if e.Title == "" {
			return res, fmt.Errorf("event %d: title is required", i)
		}
		if !e.End.After(e.Start) {
			return res, fmt.Errorf("event %d (%s): end must be after start", i, e.Title)
		}
		event := models.Event{
			Title:          e.Title,
			Description:    e.Description,
			Location:       e.Location,
			Start:          e.Start,
			End:            e.End,
			Type:           models.EventType(orDefault(e.Type, string(models.EventTypeTask))),
			RequiredSkills: e.RequiredSkills,
			Status:         orDefault(e.Status, models.StatusPending),
			Priority:       e.Priority,
			Dependencies:   []string{},
		}
		if event.Priority == 0 {
			event.Priority = models.DefaultPriority
		}
		if e.AssignedTo != "" {
			id, ok := ids[e.AssignedTo]
			if !ok {
				return res, fmt.Errorf("event %d (%s): unknown employee %q", i, e.Title, e.AssignedTo)
			}
			event.AssignedTo = &id
		}
		if _, err := store.CreateEvent(ctx, owner, event); err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}
		res.Events++
	}
	return res, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
