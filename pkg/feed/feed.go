package feed

import (
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
	ical "github.com/arran4/golang-ical"
)

const productID = "-//shift-calendar-go//calendar feed//EN"

// progressProperty carries the workflow status, which VEVENT STATUS cannot express
const progressProperty = ical.ComponentProperty("X-SHIFT-PROGRESS")

// Build renders events as an iCalendar document. Assignee names are resolved
// against employees; stale assignments fall back to the raw id.
func Build(name string, events []models.Event, employees []models.Employee, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if desc := description(e, names); desc != "" {
			ve.SetDescription(desc)
		}
		if e.Type != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(e.Type)))
		}
		if e.Priority >= models.MinPriority && e.Priority <= models.MaxPriority {
			ve.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(icalPriority(e.Priority)))
		}
		ve.SetStatus(status(e.Status))
		if e.Status != "" {
			ve.SetProperty(progressProperty, strings.ToUpper(e.Status))
		}
	}
	return cal.Serialize()
}

func description(e models.Event, names map[string]string) string {
	var lines []string
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	if e.IsAssigned() {
		who := names[*e.AssignedTo]
		if who == "" {
			who = *e.AssignedTo
		}
		lines = append(lines, "Assigned to: "+who)
	}
	if len(e.RequiredSkills) > 0 {
		lines = append(lines, "Required skills: "+strings.Join(e.RequiredSkills, ", "))
	}
	return strings.Join(lines, "\n")
}

// status maps onto the values RFC 5545 allows on VEVENT: work that has started
// or finished is confirmed, everything else is tentative
func status(s string) ical.ObjectStatus {
	switch s {
	case models.StatusCompleted, models.StatusInProgress:
		return ical.ObjectStatusConfirmed
	}
	return ical.ObjectStatusTentative
}

// icalPriority maps 1 (lowest) .. 5 (highest) onto RFC 5545's 9 (lowest) .. 1 (highest)
func icalPriority(p int) int {
	return 11 - 2*p
}
