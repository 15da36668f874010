package middleware

import (
	"net/http"

	"notes-service/internal/model"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireAdmin rejects callers whose role claim is not admin. It must run
// after Auth, which puts the role claim into the context.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		role, ok := c.Get("user_role").(string)
		if !ok || model.Role(role) != model.RoleAdmin {
			log.Warn("Admin role required", zap.String("role", role))
			prometheus.RecordAuthError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
		}

		return next(c)
	}
}
