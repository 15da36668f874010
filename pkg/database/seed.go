package database

import (
	"notes-service/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password every seeded account starts with. Demo-only;
// a real deployment replaces this with an invite/reset flow.
const SeedPassword = "password"

// Seed provisions the demo tenants and accounts. It is idempotent: existing
// tenants and users are left untouched.
func Seed(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tenants := []model.Tenant{
		{Name: "Acme", Slug: "acme", Plan: model.PlanFree},
		{Name: "Globex", Slug: "globex", Plan: model.PlanFree},
	}

	bySlug := make(map[string]uint)
	for i := range tenants {
		tenant := tenants[i]
		if err := db.Where(model.Tenant{Slug: tenant.Slug}).
			Attrs(model.Tenant{Name: tenant.Name, Plan: tenant.Plan}).
			FirstOrCreate(&tenant).Error; err != nil {
			return err
		}
		bySlug[tenant.Slug] = tenant.ID
	}

	users := []model.User{
		{Email: "admin@acme.test", Role: model.RoleAdmin, TenantID: bySlug["acme"]},
		{Email: "user@acme.test", Role: model.RoleMember, TenantID: bySlug["acme"]},
		{Email: "admin@globex.test", Role: model.RoleAdmin, TenantID: bySlug["globex"]},
		{Email: "user@globex.test", Role: model.RoleMember, TenantID: bySlug["globex"]},
	}

	for i := range users {
		user := users[i]
		if err := db.Where(model.User{Email: user.Email}).
			Attrs(model.User{Password: string(hash), Role: user.Role, TenantID: user.TenantID}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
