package handlers

import (
	"net/http"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

type dragRequest struct {
	Date string `json:"date" binding:"required"`
}

type dropRequest struct {
	Date          string            `json:"date"`
	TargetEventID string            `json:"target_event_id"`
	Payload       scheduler.Payload `json:"payload"`
}

func dragResponse(s *scheduler.DragSession) gin.H {
	resp := gin.H{"session": s.State()}
	if r, ok := s.Range(); ok {
		resp["range"] = r
	}
	return resp
}

// DragState reports the caller's drag session
func (h *Handler) DragState(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	b.WithSession(func(s *scheduler.DragSession) {
		c.JSON(http.StatusOK, dragResponse(s))
	})
}

// BeginDrag starts a range drag on the pressed day
func (h *Handler) BeginDrag(c *gin.Context) {
	h.rangeStep(c, h.Scheduler.BeginDrag)
}

// UpdateDrag moves the range drag cursor
func (h *Handler) UpdateDrag(c *gin.Context) {
	h.rangeStep(c, func(s *scheduler.DragSession, date time.Time) {
		h.Scheduler.UpdateDrag(s, date)
	})
}

func (h *Handler) rangeStep(c *gin.Context, step func(*scheduler.DragSession, time.Time)) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	var req dragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date, h.Scheduler.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD or RFC 3339"})
		return
	}
	b.WithSession(func(s *scheduler.DragSession) {
		step(s, date)
		c.JSON(http.StatusOK, dragResponse(s))
	})
}

// EndDrag resolves the range drag and creates the drafted task
func (h *Handler) EndDrag(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}

	var (
		intent  scheduler.Intent
		created bool
		err     error
	)
	b.WithSession(func(s *scheduler.DragSession) {
		intent, created, err = h.Scheduler.EndDrag(s)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"created": false})
		return
	}

	event, err := b.Apply(c.Request.Context(), intent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"created": true,
		"intent":  intent.Kind,
		"event":   eventView{Event: event, Color: eventColor(event, b.Employees())},
	})
}

// CancelDrag discards the caller's drag session
func (h *Handler) CancelDrag(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	b.WithSession(func(s *scheduler.DragSession) {
		h.Scheduler.CancelDrag(s)
		c.JSON(http.StatusOK, dragResponse(s))
	})
}

// CarryItem starts an item drag for an event or employee
func (h *Handler) CarryItem(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	var payload scheduler.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Empty() {
		h.respondError(c, scheduler.ErrEmptyPayload)
		return
	}
	b.WithSession(func(s *scheduler.DragSession) {
		s.Carry(payload)
		c.JSON(http.StatusOK, dragResponse(s))
	})
}

// Drop resolves an item drag onto a day or an event
func (h *Handler) Drop(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := scheduler.DropTarget{EventID: req.TargetEventID}
	if req.Date != "" {
		date, err := parseDate(req.Date, h.Scheduler.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD or RFC 3339"})
			return
		}
		target.Date = date
	}

	events, employees := b.Events(), b.Employees()
	if target.Date.IsZero() {
		// an event dropped onto another event lands on that event's day
		onto, found := findEvent(events, req.TargetEventID)
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date or a known target_event_id is required"})
			return
		}
		target.Date = onto.Start
	}
	var (
		intent scheduler.Intent
		err    error
	)
	b.WithSession(func(s *scheduler.DragSession) {
		intent, err = h.Scheduler.Drop(s, target, req.Payload, events, employees)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	event, err := b.Apply(c.Request.Context(), intent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if intent.Kind == scheduler.IntentCreateWithAssignment {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"intent": intent.Kind,
		"event":  eventView{Event: event, Color: eventColor(event, b.Employees())},
	})
}
