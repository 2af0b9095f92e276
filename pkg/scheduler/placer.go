package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
)

// SpanPlacement positions one row segment of a multi-day event inside a cell
type SpanPlacement struct {
	Event        models.Event `json:"event"`
	StartIndex   int          `json:"start_index"`
	EndIndex     int          `json:"end_index"`
	CurrentIndex int          `json:"current_index"`
	DayUnits     int          `json:"day_units"`
	OffsetPx     float64      `json:"offset_px"`
	WidthPx      float64      `json:"width_px"`
}

// DayPlacement lists what a single cell paints: single-day items first, then
// spans, then the drag preview overlay.
type DayPlacement struct {
	Cell      DayCell         `json:"cell"`
	SingleDay []models.Event  `json:"single_day"`
	Spans     []SpanPlacement `json:"multi_day_spans"`
	Preview   bool            `json:"preview"`
}

// IsSingleDay reports whether the event starts and ends on the same calendar day
func IsSingleDay(e models.Event) bool {
	return SameDay(e.Start, e.End)
}

// PlaceForDay computes the single-day items and span segments for cell
func PlaceForDay(cell DayCell, events []models.Event, grid []DayCell, cellWidth float64) DayPlacement {
	return newGridIndex(grid).place(cell, sortEvents(events), cellWidth)
}

// PlaceEvents runs PlaceForDay for every cell of grid. Cells inside preview are flagged.
func PlaceEvents(grid []DayCell, events []models.Event, cellWidth float64, preview *DateRange) []DayPlacement {
	idx := newGridIndex(grid)
	sorted := sortEvents(events)
	out := make([]DayPlacement, 0, len(grid))
	for _, cell := range grid {
		placement := idx.place(cell, sorted, cellWidth)
		placement.Preview = preview != nil && preview.Contains(cell.Date)
		out = append(out, placement)
	}
	return out
}

type gridIndex struct {
	positions map[int]int
	last      int
}

func newGridIndex(grid []DayCell) gridIndex {
	positions := make(map[int]int, len(grid))
	for i, cell := range grid {
		key := dayKey(cell.Date)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}
	return gridIndex{positions: positions, last: len(grid) - 1}
}

func (g gridIndex) lookup(t time.Time) (int, bool) {
	i, ok := g.positions[dayKey(t)]
	return i, ok
}

func (g gridIndex) place(cell DayCell, events []models.Event, cellWidth float64) DayPlacement {
	placement := DayPlacement{
		Cell:      cell,
		SingleDay: []models.Event{},
		Spans:     []SpanPlacement{},
	}
	current, inGrid := g.lookup(cell.Date)

	for _, e := range events {
		if IsSingleDay(e) {
			if SameDay(e.Start, cell.Date) {
				placement.SingleDay = append(placement.SingleDay, e)
			}
			continue
		}
		if !inGrid || CompareDay(e.Start, cell.Date) > 0 || CompareDay(e.End, cell.Date) < 0 {
			continue
		}
		placement.Spans = append(placement.Spans, g.span(e, current, cellWidth))
	}
	return placement
}

// span clips the event to the row containing current. The row's segment
// starts at the event's first visible day or the row's first column.
func (g gridIndex) span(e models.Event, current int, cellWidth float64) SpanPlacement {
	start, ok := g.lookup(e.Start)
	if !ok {
		start = 0
	}
	end, ok := g.lookup(e.End)
	if !ok {
		end = g.last
	}

	segment := start
	if rowStart := current - current%GridColumns; rowStart > segment {
		segment = rowStart
	}
	units := end - segment + 1
	if remaining := GridColumns - segment%GridColumns; remaining < units {
		units = remaining
	}

	unit := cellWidth / GridColumns
	return SpanPlacement{
		Event:        e,
		StartIndex:   start,
		EndIndex:     end,
		CurrentIndex: current,
		DayUnits:     units,
		OffsetPx:     float64(current%GridColumns-segment%GridColumns) * unit,
		WidthPx:      math.Min(float64(units)*unit, cellWidth),
	}
}

func sortEvents(events []models.Event) []models.Event {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}
