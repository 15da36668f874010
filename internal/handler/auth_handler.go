package handler

import (
	"net/http"
	"time"

	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves login and the current-user read.
type AuthHandler struct {
	users   *store.UserStore
	tenants *store.TenantStore
}

func NewAuthHandler(users *store.UserStore, tenants *store.TenantStore) *AuthHandler {
	return &AuthHandler{users: users, tenants: tenants}
}

// userView flattens a user and its tenant into the response shape clients
// cache between requests.
func userView(user *model.User, tenant *model.Tenant) echo.Map {
	return echo.Map{
		"id":         user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"tenantId":   user.TenantID,
		"tenantSlug": tenant.Slug,
		"tenantPlan": tenant.Plan,
	}
}

// Login verifies credentials and issues a signed token carrying the user's
// tenant context. Unknown email and wrong password return the identical
// response so callers cannot enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		log.Warn("Login failed: user not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Login failed: invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tenant, err := h.tenants.FindByID(user.TenantID)
	if err != nil {
		log.Error("Failed to load tenant for user", zap.Uint("tenant_id", user.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, string(user.Role), tenant.ID, tenant.Slug)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.ActiveTokensGauge.Inc()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("tenant_slug", tenant.Slug),
		zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  userView(user, tenant),
	})
}

// Me re-reads the caller's role, tenant and plan from the store so a plan
// upgrade is visible without re-login. The token itself is never re-issued.
func (h *AuthHandler) Me(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		prometheus.RecordAuthError("missing_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.FindByID(userID)
	if err != nil {
		log.Warn("Current user no longer exists", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": userView(user, &user.Tenant),
	})
}
