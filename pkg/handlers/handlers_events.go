package handlers

import (
	"fmt"
	"net/http"

	"github.com/arnavshah/shift-calendar-go/internal/logging"
	"github.com/arnavshah/shift-calendar-go/pkg/board"
	"github.com/arnavshah/shift-calendar-go/pkg/models"
	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// eventView is an event as reported to clients, with its resolved display colour
type eventView struct {
	models.Event
	Color string `json:"color"`
}

// eventColor prefers the assigned employee's colour and falls back to the event type's
func eventColor(e models.Event, employees []models.Employee) string {
	if e.IsAssigned() {
		for _, emp := range employees {
			if emp.ID == *e.AssignedTo && emp.Color != "" {
				return emp.Color
			}
		}
	}
	return e.Type.Color()
}

func viewEvents(events []models.Event, employees []models.Employee) []eventView {
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, eventView{Event: e, Color: eventColor(e, employees)})
	}
	return out
}

// ListEvents returns the caller's events
func (h *Handler) ListEvents(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": viewEvents(b.Events(), b.Employees())})
}

// CreateEvent stores an authored event
func (h *Handler) CreateEvent(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, err := normalizeEvent(input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	intent := scheduler.Intent{Kind: scheduler.IntentCreate, Event: event}
	if event.IsAssigned() {
		if intent, err = h.checkAssignment(b, event); err != nil {
			h.respondError(c, err)
			return
		}
		intent.Kind = scheduler.IntentCreateWithAssignment
	}

	created, err := b.Apply(c.Request.Context(), intent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, eventView{Event: created, Color: eventColor(created, b.Employees())})
}

// UpdateEvent replaces an event with an authored payload
func (h *Handler) UpdateEvent(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, err := normalizeEvent(input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	event.ID = c.Param("id")

	if event.IsAssigned() {
		if _, err := h.checkAssignment(b, event); err != nil {
			h.respondError(c, err)
			return
		}
	}

	updated, err := b.Apply(c.Request.Context(), scheduler.UpdateIntent(event))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventView{Event: updated, Color: eventColor(updated, b.Employees())})
}

// DeleteEvent removes an event
func (h *Handler) DeleteEvent(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	if _, err := b.Apply(c.Request.Context(), scheduler.DeleteIntent(c.Param("id"))); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// AssignEvent binds an employee to an event after checking their skills
func (h *Handler) AssignEvent(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	var req struct {
		EmployeeID string `json:"employee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, found := findEvent(b.Events(), c.Param("id"))
	if !found {
		h.respondError(c, fmt.Errorf("event %s: %w", c.Param("id"), scheduler.ErrNotFound))
		return
	}
	employee, found := findEmployee(b.Employees(), req.EmployeeID)
	if !found {
		h.respondError(c, fmt.Errorf("employee %s: %w", req.EmployeeID, scheduler.ErrNotFound))
		return
	}

	intent, err := h.Scheduler.TryAssign(event, employee)
	if err != nil {
		h.respondError(c, err)
		return
	}
	assigned, err := b.Apply(c.Request.Context(), intent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventView{Event: assigned, Color: eventColor(assigned, b.Employees())})
}

// AutoAssignEvent picks a qualified, available employee for an event and
// assigns it, returning the per-day work blocks
func (h *Handler) AutoAssignEvent(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	events, employees := b.Events(), b.Employees()
	event, found := findEvent(events, c.Param("id"))
	if !found {
		h.respondError(c, fmt.Errorf("event %s: %w", c.Param("id"), scheduler.ErrNotFound))
		return
	}

	result, err := h.Scheduler.AutoAssign(event, employees, events)
	if err != nil {
		h.respondError(c, err)
		return
	}
	assigned, err := b.Apply(c.Request.Context(), result.Intent)
	if err != nil {
		h.respondError(c, err)
		return
	}
	logging.FromContext(c.Request.Context()).InfoContext(c.Request.Context(), "event auto-assigned",
		"event_id", assigned.ID, "employee_id", result.EmployeeID, "blocks", len(result.Schedule))
	c.JSON(http.StatusOK, gin.H{
		"intent":        result.Intent.Kind,
		"event":         eventView{Event: assigned, Color: eventColor(assigned, b.Employees())},
		"employee_id":   result.EmployeeID,
		"employee_name": result.EmployeeName,
		"schedule":      result.Schedule,
	})
}

// checkAssignment runs the skill check for an authored event's assignee
func (h *Handler) checkAssignment(b *board.Board, event models.Event) (scheduler.Intent, error) {
	employee, ok := findEmployee(b.Employees(), *event.AssignedTo)
	if !ok {
		vErr := &scheduler.ValidationError{}
		vErr.Add("assigned_to", "unknown employee")
		return scheduler.Intent{}, vErr
	}
	return h.Scheduler.TryAssign(event, employee)
}

// ListEmployees returns the caller's employees
func (h *Handler) ListEmployees(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": b.Employees()})
}

// CreateEmployee stores an authored employee
func (h *Handler) CreateEmployee(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employee, err := normalizeEmployee(input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, ok := h.board(c); !ok {
		return
	}
	created, err := h.Store.CreateEmployee(c.Request.Context(), c.GetString(ctxUserID), employee)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateEmployee replaces an employee with an authored payload
func (h *Handler) UpdateEmployee(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employee, err := normalizeEmployee(input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, ok := h.board(c); !ok {
		return
	}
	updated, err := h.Store.UpdateEmployee(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), employee)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteEmployee removes an employee. Events keep their assignment id.
func (h *Handler) DeleteEmployee(c *gin.Context) {
	if _, ok := h.board(c); !ok {
		return
	}
	if err := h.Store.DeleteEmployee(c.Request.Context(), c.GetString(ctxUserID), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

func findEvent(events []models.Event, id string) (models.Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func findEmployee(employees []models.Employee, id string) (models.Employee, bool) {
	for _, e := range employees {
		if e.ID == id {
			return e, true
		}
	}
	return models.Employee{}, false
}
