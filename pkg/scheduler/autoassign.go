package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
)

// AutoAssignHorizonDays bounds how many days from the event's start are searched
const AutoAssignHorizonDays = 30

const clockLayout = "15:04"

// WorkBlock is one day's share of an auto-assigned event
type WorkBlock struct {
	Date  string    `json:"date"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours float64   `json:"hours"`
}

// AutoAssignment is the employee chosen for an event and when they work on it
type AutoAssignment struct {
	Intent       Intent      `json:"intent"`
	EmployeeID   string      `json:"employee_id"`
	EmployeeName string      `json:"employee_name"`
	Schedule     []WorkBlock `json:"schedule"`
}

// DurationHours calculates the duration between two times in hours
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// Overlap checks if two time ranges overlap
func Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AutoAssign picks an employee for event. Candidates must hold every required
// skill; each is then walked day by day through their availability patterns,
// skipping time already taken by their other assigned events, until the
// event's estimated hours fit. The candidate finishing earliest wins, ties
// going to the one with fewer assigned hours, then to list order.
func (s *Scheduler) AutoAssign(event models.Event, employees []models.Employee, events []models.Event) (AutoAssignment, error) {
	need := time.Duration(event.EstimatedDurationHours * float64(time.Hour))
	if need <= 0 {
		need = event.Duration()
	}
	need = need.Round(time.Minute)
	if need <= 0 {
		vErr := &ValidationError{}
		vErr.Add("estimated_duration_hours", "event needs a positive duration to auto-assign")
		return AutoAssignment{}, vErr
	}

	first := s.Today()
	if !event.Start.IsZero() {
		first = StartOfDay(event.Start.In(s.loc))
	}

	best := -1
	var bestBlocks []WorkBlock
	var bestLoad float64
	unskilled, unavailable := 0, 0
	for i, emp := range employees {
		if !CanAssign(emp, event.RequiredSkills) {
			unskilled++
			continue
		}
		blocks, ok := s.planBlocks(emp, need, first, busyFor(emp.ID, event.ID, events))
		if !ok {
			unavailable++
			continue
		}
		load := assignedHours(emp.ID, event.ID, events)
		if best >= 0 {
			finish, bestFinish := blocks[len(blocks)-1].End, bestBlocks[len(bestBlocks)-1].End
			if finish.After(bestFinish) || (finish.Equal(bestFinish) && load >= bestLoad) {
				continue
			}
		}
		best, bestBlocks, bestLoad = i, blocks, load
	}

	if best < 0 {
		var reasons []string
		if unskilled > 0 {
			reasons = append(reasons, fmt.Sprintf("%d employees lacked required skills", unskilled))
		}
		if unavailable > 0 {
			reasons = append(reasons, fmt.Sprintf("%d employees had no room for %s within %d days", unavailable, need, AutoAssignHorizonDays))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "no employees found")
		}
		return AutoAssignment{}, &AutoAssignError{EventID: event.ID, Reasons: reasons}
	}

	chosen := employees[best]
	intent, err := s.TryAssign(event, chosen)
	if err != nil {
		return AutoAssignment{}, err
	}
	return AutoAssignment{
		Intent:       intent,
		EmployeeID:   chosen.ID,
		EmployeeName: chosen.Name,
		Schedule:     bestBlocks,
	}, nil
}

// planBlocks fills need with at most one block per day, reporting false when
// the horizon runs out first
func (s *Scheduler) planBlocks(employee models.Employee, need time.Duration, first time.Time, busy []DateRange) ([]WorkBlock, bool) {
	var blocks []WorkBlock
	for i := 0; i < AutoAssignHorizonDays && need > 0; i++ {
		day := first.AddDate(0, 0, i)
		window, ok := availableWindow(employee, day)
		if !ok {
			continue
		}
		gap, ok := firstGap(window, busy)
		if !ok {
			continue
		}
		take := gap.End.Sub(gap.Start)
		if take > need {
			take = need
		}
		blocks = append(blocks, WorkBlock{
			Date:  day.Format("2006-01-02"),
			Start: gap.Start,
			End:   gap.Start.Add(take),
			Hours: take.Hours(),
		})
		need -= take
	}
	return blocks, need <= 0
}

// availableWindow returns the working hours of employee on day. A date
// specific pattern for the day overrides the weekly ones.
func availableWindow(employee models.Employee, day time.Time) (DateRange, bool) {
	date := day.Format("2006-01-02")
	for _, p := range employee.AvailabilityPatterns {
		if p.Type != models.AvailabilityDateSpecific || p.Date != date {
			continue
		}
		if p.IsAvailable != nil && !*p.IsAvailable {
			return DateRange{}, false
		}
		if w, ok := clockWindow(day, p.StartTime, p.EndTime); ok {
			return w, true
		}
	}
	weekday := int(day.Weekday())
	for _, p := range employee.AvailabilityPatterns {
		if p.Type != models.AvailabilityWeekly || !containsDay(p.Days, weekday) {
			continue
		}
		if w, ok := clockWindow(day, p.StartTime, p.EndTime); ok {
			return w, true
		}
	}
	return DateRange{}, false
}

// clockWindow places HH:MM bounds on day. Overnight or unparsable bounds give no window.
func clockWindow(day time.Time, from, to string) (DateRange, bool) {
	start, err := time.Parse(clockLayout, from)
	if err != nil {
		return DateRange{}, false
	}
	end, err := time.Parse(clockLayout, to)
	if err != nil {
		return DateRange{}, false
	}
	w := DateRange{
		Start: AtClock(day, start.Hour(), start.Minute()),
		End:   AtClock(day, end.Hour(), end.Minute()),
	}
	if !w.End.After(w.Start) {
		return DateRange{}, false
	}
	return w, true
}

// firstGap returns the earliest stretch of window not covered by busy, which
// must be sorted by start
func firstGap(window DateRange, busy []DateRange) (DateRange, bool) {
	start := window.Start
	for _, b := range busy {
		if !Overlap(start, window.End, b.Start, b.End) {
			continue
		}
		if b.Start.After(start) {
			return DateRange{Start: start, End: b.Start}, true
		}
		start = b.End
	}
	if !start.Before(window.End) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: window.End}, true
}

// busyFor lists the spans of events assigned to employeeID, other than skip
func busyFor(employeeID, skip string, events []models.Event) []DateRange {
	var busy []DateRange
	for _, e := range events {
		if e.ID == skip || !e.IsAssigned() || *e.AssignedTo != employeeID {
			continue
		}
		busy = append(busy, DateRange{Start: e.Start, End: e.End})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy
}

func assignedHours(employeeID, skip string, events []models.Event) float64 {
	total := 0.0
	for _, r := range busyFor(employeeID, skip, events) {
		total += DurationHours(r.Start, r.End)
	}
	return total
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
