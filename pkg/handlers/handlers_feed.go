package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/auth"
	"github.com/arnavshah/shift-calendar-go/pkg/feed"
	"github.com/gin-gonic/gin"
)

// FeedKey returns the caller's signed calendar feed key
func (h *Handler) FeedKey(c *gin.Context) {
	key := auth.GenerateFeedKey(h.FeedSecret, c.GetString(ctxUserID))
	c.JSON(http.StatusOK, gin.H{
		"key": key,
		"url": "/feed/" + key + "/calendar.ics",
	})
}

// CalendarFeed serves a user's events as iCalendar. The signed key stands in
// for a session so calendar clients can subscribe.
func (h *Handler) CalendarFeed(c *gin.Context) {
	userID, err := auth.VerifyFeedKey(h.FeedSecret, c.Param("key"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid feed key"})
		return
	}

	ctx := c.Request.Context()
	events, err := h.Store.ListEvents(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	employees, err := h.Store.ListEmployees(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	body := feed.Build(serviceName, events, employees, time.Now())
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// Stream pushes the caller's snapshots as server-sent events, starting with
// the current one
func (h *Handler) Stream(c *gin.Context) {
	b, ok := h.board(c)
	if !ok {
		return
	}
	updates, stop := b.Watch()
	defer stop()

	send := func() {
		c.SSEvent("snapshot", gin.H{
			"version":   b.Version(),
			"events":    viewEvents(b.Events(), b.Employees()),
			"employees": b.Employees(),
		})
	}

	c.Header("Cache-Control", "no-cache")
	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			send()
			return true
		}
		select {
		case _, open := <-updates:
			if !open {
				return false
			}
			send()
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
