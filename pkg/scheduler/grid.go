package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// View determines the shape of the rendered grid
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

const (
	// GridColumns is the number of columns in every grid row
	GridColumns = 7
	// MonthCells is the fixed size of a month grid, 6 rows of 7 days
	MonthCells = 42
)

// ParseView validates a caller supplied view mode. An empty value selects the month view.
func ParseView(value string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(value))); v {
	case "":
		return ViewMonth, nil
	case ViewDay, ViewWeek, ViewMonth:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, value)
}

// DayCell is one day in the displayed grid
type DayCell struct {
	Date            time.Time `json:"date"`
	InPrimaryPeriod bool      `json:"in_primary_period"`
}

// BuildGrid returns the ordered day cells displayed for reference in the given view.
// It panics on an unknown view; callers validate input with ParseView.
func BuildGrid(reference time.Time, view View) []DayCell {
	switch view {
	case ViewMonth:
		return monthGrid(reference)
	case ViewWeek:
		return weekGrid(reference)
	case ViewDay:
		return []DayCell{{Date: StartOfDay(reference), InPrimaryPeriod: true}}
	}
	panic(fmt.Sprintf("scheduler: unknown view %q", view))
}

func monthGrid(reference time.Time) []DayCell {
	year, month, _ := reference.Date()
	lead := int(FirstWeekday(year, month))
	days := DaysInMonth(year, month)
	first := time.Date(year, month, 1, 0, 0, 0, 0, reference.Location())
	origin := first.AddDate(0, 0, -lead)

	cells := make([]DayCell, 0, MonthCells)
	for i := 0; i < MonthCells; i++ {
		cells = append(cells, DayCell{
			Date:            origin.AddDate(0, 0, i),
			InPrimaryPeriod: i >= lead && i < lead+days,
		})
	}
	return cells
}

func weekGrid(reference time.Time) []DayCell {
	origin := StartOfWeek(reference)
	month := reference.Month()
	cells := make([]DayCell, 0, GridColumns)
	for i := 0; i < GridColumns; i++ {
		date := origin.AddDate(0, 0, i)
		cells = append(cells, DayCell{Date: date, InPrimaryPeriod: date.Month() == month})
	}
	return cells
}

// Navigate moves reference by step periods of the given view. Month steps keep
// the day of month where possible and clamp to the target month's last day.
func Navigate(reference time.Time, view View, step int) time.Time {
	switch view {
	case ViewDay:
		return reference.AddDate(0, 0, step)
	case ViewWeek:
		return reference.AddDate(0, 0, 7*step)
	case ViewMonth:
		year, month, day := reference.Date()
		target := time.Date(year, month+time.Month(step), 1, 0, 0, 0, 0, reference.Location())
		if last := DaysInMonth(target.Year(), target.Month()); day > last {
			day = last
		}
		return time.Date(target.Year(), target.Month(), day,
			reference.Hour(), reference.Minute(), reference.Second(), reference.Nanosecond(), reference.Location())
	}
	panic(fmt.Sprintf("scheduler: unknown view %q", view))
}
