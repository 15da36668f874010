package handler_test

import (
	"net/http"
	"testing"

	"notes-service/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeRequiresAdminRole(t *testing.T) {
	e, _ := setupServer(t)

	memberToken := login(t, e, "user@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/acme/upgrade", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpgradeRestrictedToOwnTenant(t *testing.T) {
	e, _ := setupServer(t)

	acmeAdmin := login(t, e, "admin@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/globex/upgrade", acmeAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Globex stays on the free plan.
	globexAdmin := login(t, e, "admin@globex.test", database.SeedPassword)
	rec = doRequest(t, e, http.MethodGet, "/auth/me", globexAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "free", user["tenantPlan"])
}

func TestUpgradeIsIdempotent(t *testing.T) {
	e, _ := setupServer(t)

	adminToken := login(t, e, "admin@acme.test", database.SeedPassword)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, e, http.MethodPost, "/tenants/acme/upgrade", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		tenant := decodeBody(t, rec)["tenant"].(map[string]interface{})
		assert.Equal(t, "pro", tenant["plan"])
	}
}

func TestInviteIntoOwnTenant(t *testing.T) {
	e, _ := setupServer(t)

	adminToken := login(t, e, "admin@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/acme/invite", adminToken, map[string]string{
		"email": "new@acme.test",
		"role":  "member",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "new@acme.test", user["email"])
	assert.Equal(t, "member", user["role"])
	assert.NotContains(t, rec.Body.String(), "password")

	// The invited user can log in with the default password and lands in the
	// admin's tenant.
	token := login(t, e, "new@acme.test", database.SeedPassword)
	rec = doRequest(t, e, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "acme", me["tenantSlug"])
}

func TestInviteIntoOtherTenantForbidden(t *testing.T) {
	e, _ := setupServer(t)

	acmeAdmin := login(t, e, "admin@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/globex/invite", acmeAdmin, map[string]string{
		"email": "mole@globex.test",
		"role":  "member",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInviteDuplicateEmailConflicts(t *testing.T) {
	e, _ := setupServer(t)

	adminToken := login(t, e, "admin@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/acme/invite", adminToken, map[string]string{
		"email": "user@acme.test",
		"role":  "member",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInviteValidation(t *testing.T) {
	e, _ := setupServer(t)

	adminToken := login(t, e, "admin@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/acme/invite", adminToken, map[string]string{
		"email": "incomplete@acme.test",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/tenants/acme/invite", adminToken, map[string]string{
		"email": "weird@acme.test",
		"role":  "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInviteRequiresAdminRole(t *testing.T) {
	e, _ := setupServer(t)

	memberToken := login(t, e, "user@acme.test", database.SeedPassword)

	rec := doRequest(t, e, http.MethodPost, "/tenants/acme/invite", memberToken, map[string]string{
		"email": "new@acme.test",
		"role":  "member",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e, _ := setupServer(t)

	rec := doRequest(t, e, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}
