package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

type spanView struct {
	scheduler.SpanPlacement
	Event eventView `json:"event"`
}

type cellView struct {
	Date            time.Time   `json:"date"`
	InPrimaryPeriod bool        `json:"in_primary_period"`
	IsToday         bool        `json:"is_today"`
	IsWeekend       bool        `json:"is_weekend"`
	Preview         bool        `json:"preview"`
	SingleDay       []eventView `json:"single_day"`
	Spans           []spanView  `json:"multi_day_spans"`
}

type viewResponse struct {
	View      scheduler.View `json:"view"`
	Date      time.Time      `json:"date"`
	Previous  time.Time      `json:"previous"`
	Next      time.Time      `json:"next"`
	Today     time.Time      `json:"today"`
	CellWidth float64        `json:"cell_width"`
	Cells     []cellView     `json:"cells"`
}

// View builds the grid for a date and view mode and places the caller's events on it
func (h *Handler) View(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}

	view, err := scheduler.ParseView(c.Query("view"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	loc := h.Scheduler.Location()
	today := h.Scheduler.Today()
	date := today
	if raw := c.Query("date"); raw != "" {
		if date, err = parseDate(raw, loc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD or RFC 3339"})
			return
		}
	}

	cellWidth := h.DefaultCellWidth
	if raw := c.Query("cell_width"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cell_width must be a positive number"})
			return
		}
		cellWidth = w
	}

	var preview *scheduler.DateRange
	b.WithSession(func(s *scheduler.DragSession) {
		if r, ok := s.Range(); ok {
			preview = &r
		}
	})

	employees := b.Employees()
	cells := h.Scheduler.BuildView(date, view)
	placements := h.Scheduler.PlaceEvents(cells, b.Events(), cellWidth, preview)

	resp := viewResponse{
		View:      view,
		Date:      scheduler.StartOfDay(date),
		Previous:  scheduler.StartOfDay(scheduler.Navigate(date, view, -1)),
		Next:      scheduler.StartOfDay(scheduler.Navigate(date, view, 1)),
		Today:     today,
		CellWidth: cellWidth,
		Cells:     make([]cellView, 0, len(placements)),
	}
	for _, p := range placements {
		resp.Cells = append(resp.Cells, toCellView(p, today, employees))
	}
	c.JSON(http.StatusOK, resp)
}

func toCellView(p scheduler.DayPlacement, today time.Time, employees []models.Employee) cellView {
	weekday := p.Cell.Date.Weekday()
	cv := cellView{
		Date:            p.Cell.Date,
		InPrimaryPeriod: p.Cell.InPrimaryPeriod,
		IsToday:         scheduler.SameDay(p.Cell.Date, today),
		IsWeekend:       weekday == time.Saturday || weekday == time.Sunday,
		Preview:         p.Preview,
		SingleDay:       viewEvents(p.SingleDay, employees),
		Spans:           make([]spanView, 0, len(p.Spans)),
	}
	for _, s := range p.Spans {
		cv.Spans = append(cv.Spans, spanView{
			SpanPlacement: s,
			Event:         eventView{Event: s.Event, Color: eventColor(s.Event, employees)},
		})
	}
	return cv
}
