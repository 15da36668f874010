package store

import (
	"notes-service/internal/model"

	"gorm.io/gorm"
)

// TenantStore persists tenants and their plan tier.
type TenantStore struct {
	db *gorm.DB
}

func NewTenantStore(db *gorm.DB) *TenantStore {
	return &TenantStore{db: db}
}

// FindBySlug looks up a tenant by its unique slug.
func (s *TenantStore) FindBySlug(slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindByID looks up a tenant by primary key.
func (s *TenantStore) FindByID(id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// UpgradeToPro sets the tenant's plan to pro. The operation is idempotent:
// upgrading an already-pro tenant succeeds and leaves the plan unchanged.
func (s *TenantStore) UpgradeToPro(slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, err
	}
	if tenant.Plan != model.PlanPro {
		if err := s.db.Model(&tenant).Update("plan", model.PlanPro).Error; err != nil {
			return nil, err
		}
		tenant.Plan = model.PlanPro
	}
	return &tenant, nil
}
