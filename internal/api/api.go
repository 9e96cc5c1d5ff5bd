// Package api serves the JSON contact backend under /api.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dvasava/portfolio/internal/model"
	"github.com/dvasava/portfolio/internal/notify"
	"github.com/dvasava/portfolio/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	statusListLimit  = 1000
	notifyTimeout    = 30 * time.Second
)

// ContactStore persists contact messages.
type ContactStore interface {
	Save(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Counts(ctx context.Context) (total, unread int64, err error)
}

// StatusStore persists legacy status checks.
type StatusStore interface {
	Save(ctx context.Context, sc *model.StatusCheck) error
	List(ctx context.Context, limit int) ([]*model.StatusCheck, error)
}

// ViewCounter reports page view totals.
type ViewCounter interface {
	Counts(ctx context.Context) (views, unique int64, err error)
}

// Pinger checks the backing database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps groups the collaborators of Handler.
type Deps struct {
	Contacts ContactStore
	Statuses StatusStore
	Views    ViewCounter
	DB       Pinger
	Notifier notify.Notifier
	Log      *slog.Logger
	// Owner is the portfolio owner's display name used in the banner.
	Owner string
}

// Handler implements the /api routes.
type Handler struct {
	Deps
	now   func() time.Time
	newID func() string
}

// New returns a Handler. Nil Notifier and Log fall back to no-ops/default.
func New(d Deps) *Handler {
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Handler{
		Deps:  d,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Register mounts the routes on r, which is normally the /api group.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/contact", h.CreateContact)
	r.GET("/contact", h.ListContacts)
	r.PATCH("/contact/:id/read", h.MarkRead)
	r.GET("/stats", h.Stats)
	r.POST("/status", h.CreateStatus)
	r.GET("/status", h.ListStatus)
}

func detail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"detail": msg})
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.Owner + " Portfolio API is running"})
}

func (h *Handler) Health(c *gin.Context) {
	if h.DB != nil {
		if err := h.DB.PingContext(c.Request.Context()); err != nil {
			h.Log.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": h.now(),
				"service":   "Portfolio API",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now(),
		"service":   "Portfolio API",
	})
}

type createContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CreateContact handles POST /api/contact. The body only has to carry the
// three fields; content is not inspected.
func (h *Handler) CreateContact(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "name, email and message are required")
		return
	}

	msg := &model.ContactMessage{
		ID:        h.newID(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Timestamp: h.now(),
	}
	if err := h.Contacts.Save(c.Request.Context(), msg); err != nil {
		h.Log.Error("error saving contact message", "error", err)
		detail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.Log.Info("contact message saved", "id", msg.ID)

	go h.notify(context.WithoutCancel(c.Request.Context()), msg)

	c.JSON(http.StatusOK, msg)
}

func (h *Handler) notify(ctx context.Context, msg *model.ContactMessage) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := h.Notifier.Notify(ctx, msg); err != nil {
		h.Log.Warn("contact notification failed", "id", msg.ID, "error", err)
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}

// ListContacts handles GET /api/contact?limit=&skip=&unread=.
func (h *Handler) ListContacts(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	limit = min(limit, maxListLimit)

	messages, err := h.Contacts.List(c.Request.Context(), model.ContactListOptions{
		Limit:      limit,
		Skip:       skip,
		UnreadOnly: c.Query("unread") == "true",
	})
	if err != nil {
		h.Log.Error("error fetching contact messages", "error", err)
		detail(c, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

// MarkRead handles PATCH /api/contact/:id/read.
func (h *Handler) MarkRead(c *gin.Context) {
	err := h.Contacts.MarkRead(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		detail(c, http.StatusNotFound, "Message not found")
	case err != nil:
		h.Log.Error("error marking message as read", "id", c.Param("id"), "error", err)
		detail(c, http.StatusInternalServerError, "Failed to update message")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
	}
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	total, unread, err := h.Contacts.Counts(ctx)
	if err != nil {
		h.Log.Error("error fetching stats", "error", err)
		detail(c, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	stats := model.Stats{
		TotalMessages:  total,
		UnreadMessages: unread,
		LastUpdated:    h.now(),
	}
	if h.Views != nil {
		stats.TotalViews, stats.UniqueVisitors, err = h.Views.Counts(ctx)
		if err != nil {
			h.Log.Error("error fetching view stats", "error", err)
			detail(c, http.StatusInternalServerError, "Failed to fetch stats")
			return
		}
	}
	c.JSON(http.StatusOK, stats)
}

type createStatusRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

func (h *Handler) CreateStatus(c *gin.Context) {
	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "client_name is required")
		return
	}
	sc := &model.StatusCheck{ID: h.newID(), ClientName: req.ClientName, Timestamp: h.now()}
	if err := h.Statuses.Save(c.Request.Context(), sc); err != nil {
		h.Log.Error("error saving status check", "error", err)
		detail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) ListStatus(c *gin.Context) {
	checks, err := h.Statuses.List(c.Request.Context(), statusListLimit)
	if err != nil {
		h.Log.Error("error listing status checks", "error", err)
		detail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if checks == nil {
		checks = []*model.StatusCheck{}
	}
	c.JSON(http.StatusOK, checks)
}
