package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/shift-calendar-go/internal/logging"
	"github.com/arnavshah/shift-calendar-go/pkg/auth"
	"github.com/arnavshah/shift-calendar-go/pkg/board"
	"github.com/arnavshah/shift-calendar-go/pkg/database"
	"github.com/arnavshah/shift-calendar-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "Shift Calendar API"
	serviceVersion = "3.0.0"

	ctxUserID = "userID"
	ctxToken  = "token"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	Store            *database.Store
	Boards           *board.Registry
	Auth             *auth.Provider
	Scheduler        *scheduler.Scheduler
	FeedSecret       string
	DefaultCellWidth float64
	Logger           *slog.Logger
}

// New wires a handler and subscribes the board registry to sign-in changes
func New(store *database.Store, provider *auth.Provider, sched *scheduler.Scheduler, feedSecret string, cellWidth float64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cellWidth <= 0 {
		cellWidth = 140
	}
	boards := board.NewRegistry(store, logger)
	provider.OnChange(boards.HandleAuthChange)
	return &Handler{
		Store:            store,
		Boards:           boards,
		Auth:             provider,
		Scheduler:        sched,
		FeedSecret:       feedSecret,
		DefaultCellWidth: cellWidth,
		Logger:           logger,
	}
}

// NewRouter builds the gin engine with every route registered
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(h.Logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": serviceName,
			"version": serviceVersion,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.AuthMiddleware(), h.Logout)

	r.GET("/feed/:key/calendar.ics", h.CalendarFeed)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/view", h.View)

		api.GET("/events", h.ListEvents)
		api.POST("/events", h.CreateEvent)
		api.PUT("/events/:id", h.UpdateEvent)
		api.DELETE("/events/:id", h.DeleteEvent)
		api.POST("/events/:id/assign", h.AssignEvent)
		api.POST("/events/:id/auto-assign", h.AutoAssignEvent)

		api.GET("/employees", h.ListEmployees)
		api.POST("/employees", h.CreateEmployee)
		api.PUT("/employees/:id", h.UpdateEmployee)
		api.DELETE("/employees/:id", h.DeleteEmployee)

		api.GET("/drag", h.DragState)
		api.POST("/drag/begin", h.BeginDrag)
		api.POST("/drag/update", h.UpdateDrag)
		api.POST("/drag/end", h.EndDrag)
		api.POST("/drag/cancel", h.CancelDrag)
		api.POST("/drag/carry", h.CarryItem)
		api.POST("/drop", h.Drop)

		api.POST("/validate", h.ValidateInput)
		api.GET("/stream", h.Stream)
		api.GET("/feed-key", h.FeedKey)
	}

	return r
}

// AuthMiddleware verifies the session token and stores the caller's user id
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		token = strings.TrimPrefix(token, "Bearer ")

		userID, err := h.Auth.CurrentUserID(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxToken, token)
		c.Next()
	}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account
func (h *Handler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "user_id": user.ID})
}

// Logout revokes the caller's token
func (h *Handler) Logout(c *gin.Context) {
	if _, err := h.Auth.Logout(c.GetString(ctxToken)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// board returns the caller's board, writing an error response when it cannot be opened
func (h *Handler) board(c *gin.Context) (*board.Board, bool) {
	b, err := h.Boards.Get(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return b, true
}

// respondError maps domain errors onto status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr *scheduler.ValidationError
	var rErr *scheduler.RejectionError
	var aErr *scheduler.AutoAssignError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": vErr.FieldErrors})
	case errors.As(err, &rErr):
		c.JSON(http.StatusConflict, gin.H{"error": rErr.Error(), "missing_skills": rErr.Missing})
	case errors.As(err, &aErr):
		c.JSON(http.StatusConflict, gin.H{"error": aErr.Error(), "reasons": aErr.Reasons})
	case errors.Is(err, scheduler.ErrNotFound), errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrEmptyPayload), errors.Is(err, scheduler.ErrInvalidView), errors.Is(err, auth.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate accepts YYYY-MM-DD or RFC 3339 and returns the instant in loc
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
