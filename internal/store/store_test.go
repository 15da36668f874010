package store

import (
	"testing"

	"notes-service/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// In-memory sqlite gives every pooled connection its own database, so
	// pin the pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Tenant{}, &model.User{}, &model.Note{}))
	return db
}

func createTenant(t *testing.T, db *gorm.DB, slug string, plan model.Plan) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{Name: slug, Slug: slug, Plan: plan}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func createUser(t *testing.T, db *gorm.DB, email string, role model.Role, tenantID uint) *model.User {
	t.Helper()
	user := &model.User{Email: email, Password: "hash", Role: role, TenantID: tenantID}
	require.NoError(t, db.Create(user).Error)
	return user
}
