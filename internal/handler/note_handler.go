package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteHandler serves tenant-scoped note CRUD. The tenant and author stamped on
// every operation come from the authenticated caller's claims, never from the
// request body.
type NoteHandler struct {
	notes *store.NoteStore
}

func NewNoteHandler(notes *store.NoteStore) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func callerIdentity(c echo.Context) (userID, tenantID uint, ok bool) {
	userID, uok := c.Get("user_id").(uint)
	tenantID, tok := c.Get("tenant_id").(uint)
	return userID, tenantID, uok && tok
}

// Create creates a note for the caller's tenant, subject to the plan quota.
func (h *NoteHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")

	userID, tenantID, ok := callerIdentity(c)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	note, err := h.notes.CreateWithQuota(tenantID, userID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrPlanLimit) {
			log.Info("Note creation rejected by plan limit", zap.Uint("tenant_id", tenantID))
			prometheus.PlanLimitCounter.Inc()
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Free plan limit reached. Upgrade to Pro."})
		}
		log.Error("Failed to create note", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create note"})
	}

	log.Info("Note created",
		zap.Uint("id", note.ID),
		zap.Uint("tenant_id", note.TenantID),
		zap.Uint("author_id", note.AuthorID))
	return c.JSON(http.StatusCreated, note)
}

// List returns all notes of the caller's tenant with authors joined in.
func (h *NoteHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")

	_, tenantID, ok := callerIdentity(c)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	notes, err := h.notes.ListByTenant(tenantID)
	if err != nil {
		log.Error("Failed to list notes", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list notes"})
	}

	return c.JSON(http.StatusOK, notes)
}

// Get returns a single note. A note belonging to another tenant is reported
// as not found, never as forbidden.
func (h *NoteHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("get")

	_, tenantID, ok := callerIdentity(c)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	note, err := h.notes.GetByTenant(tenantID, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		log.Error("Failed to get note", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get note"})
	}

	return c.JSON(http.StatusOK, note)
}

// Update applies a partial update to a note of the caller's tenant. Fields
// absent from the body are left unchanged.
func (h *NoteHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("update")

	_, tenantID, ok := callerIdentity(c)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note ID"})
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	note, err := h.notes.UpdateByTenant(tenantID, uint(id), updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		log.Error("Failed to update note", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update note"})
	}

	log.Info("Note updated", zap.Uint("id", note.ID), zap.Uint("tenant_id", tenantID))
	return c.JSON(http.StatusOK, note)
}

// Delete removes a note of the caller's tenant.
func (h *NoteHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")

	_, tenantID, ok := callerIdentity(c)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.notes.DeleteByTenant(tenantID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		log.Error("Failed to delete note", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete note"})
	}

	log.Info("Note deleted", zap.Uint64("id", id), zap.Uint("tenant_id", tenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted"})
}
