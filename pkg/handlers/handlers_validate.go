package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

const (
	defaultEmployeeName    = "Unnamed Employee"
	defaultEmploymentType  = "unknown"
	defaultShiftPreference = "any"
)

// normalizeEvent applies authoring defaults and rules to an event payload
func normalizeEvent(in models.EventInput) (models.Event, error) {
	vErr := &scheduler.ValidationError{}
	e := models.Event{
		Title:                  strings.TrimSpace(in.Title),
		Description:            in.Description,
		Location:               in.Location,
		Type:                   in.Type,
		RequiredSkills:         nonNil(in.RequiredSkills),
		Status:                 in.Status,
		Priority:               in.Priority,
		Dependencies:           nonNil(in.Dependencies),
		EstimatedDurationHours: in.EstimatedDurationHours,
	}
	if in.AssignedTo != nil && *in.AssignedTo != "" {
		id := *in.AssignedTo
		e.AssignedTo = &id
	}

	if e.Title == "" {
		vErr.Add("title", "title is required")
	}

	switch {
	case in.Start == nil || in.Start.IsZero():
		vErr.Add("start", "start is required")
	case in.End != nil && !in.End.IsZero():
		e.Start, e.End = *in.Start, *in.End
		if !e.End.After(e.Start) {
			vErr.Add("end", "end must be after start")
		}
	default:
		e.Start = *in.Start
		hours := in.EstimatedDurationHours
		if hours < 0 {
			vErr.Add("estimated_duration_hours", "duration must not be negative")
		}
		if hours <= 0 {
			hours = 1
		}
		e.End = e.Start.Add(time.Duration(hours * float64(time.Hour)))
	}

	if e.Type == "" {
		e.Type = models.EventTypeTask
	} else if !e.Type.Valid() {
		vErr.Add("type", "type must be one of task, meeting, workout")
	}

	switch e.Status {
	case "":
		e.Status = models.StatusPending
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
	default:
		vErr.Add("status", "status must be one of pending, in_progress, completed")
	}

	if e.Priority == 0 {
		e.Priority = models.DefaultPriority
	} else if e.Priority < models.MinPriority || e.Priority > models.MaxPriority {
		vErr.Add("priority", "priority must be between 1 and 5")
	}

	for _, skill := range e.RequiredSkills {
		if strings.TrimSpace(skill) == "" {
			vErr.Add("required_skills", "skill names must not be empty")
			break
		}
	}

	if vErr.HasErrors() {
		return models.Event{}, vErr
	}
	return e, nil
}

// normalizeEmployee applies authoring defaults and rules to an employee payload
func normalizeEmployee(in models.EmployeeInput) (models.Employee, error) {
	vErr := &scheduler.ValidationError{}
	e := models.Employee{
		Name:                 strings.TrimSpace(in.Name),
		Email:                strings.TrimSpace(in.Email),
		Skills:               in.Skills,
		AvailabilityPatterns: in.AvailabilityPatterns,
		EmploymentType:       in.EmploymentType,
		ShiftPreference:      in.ShiftPreference,
		Color:                in.Color,
		Notes:                in.Notes,
	}
	if e.Name == "" {
		e.Name = defaultEmployeeName
	}
	if e.EmploymentType == "" {
		e.EmploymentType = defaultEmploymentType
	}
	if e.ShiftPreference == "" {
		e.ShiftPreference = defaultShiftPreference
	}
	if e.Skills == nil {
		e.Skills = []models.Skill{}
	}
	if e.AvailabilityPatterns == nil {
		e.AvailabilityPatterns = []models.AvailabilityPattern{}
	}

	for _, s := range e.Skills {
		if strings.TrimSpace(s.SkillName) == "" {
			vErr.Add("skills", "skill names must not be empty")
			break
		}
	}

patterns:
	for _, p := range e.AvailabilityPatterns {
		switch p.Type {
		case models.AvailabilityWeekly:
			for _, d := range p.Days {
				if d < 0 || d > 6 {
					vErr.Add("availability_patterns", "weekly days must be between 0 and 6")
					break patterns
				}
			}
		case models.AvailabilityDateSpecific:
			if _, err := time.Parse("2006-01-02", p.Date); err != nil {
				vErr.Add("availability_patterns", "date specific patterns need a YYYY-MM-DD date")
				break patterns
			}
		default:
			vErr.Add("availability_patterns", "pattern type must be weekly or date_specific")
			break patterns
		}
	}

	if vErr.HasErrors() {
		return models.Employee{}, vErr
	}
	return e, nil
}

// ValidateInput checks an event payload against the authoring rules without storing it
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	event, err := normalizeEvent(input)
	if err != nil {
		vErr := err.(*scheduler.ValidationError)
		c.JSON(http.StatusOK, gin.H{
			"valid":  false,
			"error":  vErr.Error(),
			"fields": vErr.FieldErrors,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"event": event,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
