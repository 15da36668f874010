package handler

import (
	"errors"
	"net/http"
	"time"

	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TenantHandler serves the admin-only tenant operations: plan upgrade and
// user invitation. Both are restricted to the admin's own tenant.
type TenantHandler struct {
	tenants *store.TenantStore
	users   *store.UserStore
}

func NewTenantHandler(tenants *store.TenantStore, users *store.UserStore) *TenantHandler {
	return &TenantHandler{tenants: tenants, users: users}
}

// Upgrade sets the tenant's plan to pro. Idempotent: upgrading an already-pro
// tenant succeeds.
func (h *TenantHandler) Upgrade(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("upgrade")

	slug := c.Param("slug")

	callerSlug, ok := c.Get("tenant_slug").(string)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if slug != callerSlug {
		log.Warn("Cross-tenant upgrade rejected",
			zap.String("caller_tenant", callerSlug),
			zap.String("target_tenant", slug))
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "can only upgrade your own tenant"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tenant, err := h.tenants.UpgradeToPro(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		log.Error("Failed to upgrade tenant", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upgrade tenant"})
	}

	log.Info("Tenant upgraded to Pro", zap.String("slug", tenant.Slug))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Tenant upgraded to Pro",
		"tenant":  tenant,
	})
}

// Invite creates a user in the admin's own tenant with the default password.
// Inviting into another tenant's slug is forbidden.
func (h *TenantHandler) Invite(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("invite")

	slug := c.Param("slug")

	callerSlug, ok := c.Get("tenant_slug").(string)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invite request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and role are required"})
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or member"})
	}

	if slug != callerSlug {
		log.Warn("Cross-tenant invite rejected",
			zap.String("caller_tenant", callerSlug),
			zap.String("target_tenant", slug))
		prometheus.RecordAuthError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "can only invite to your own tenant"})
	}

	tenant, err := h.tenants.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		log.Error("Failed to load tenant", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	// Invited users start with the demo default password, hashed the same way
	// as seeded accounts. A production deployment would send an invite link.
	hash, err := bcrypt.GenerateFromPassword([]byte(database.SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
		TenantID: tenant.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.users.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn("Invite rejected: email already exists", zap.String("email", req.Email))
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		log.Error("Failed to create invited user", zap.String("email", req.Email), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	log.Info("User invited",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("tenant_slug", tenant.Slug))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created (invite)",
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
