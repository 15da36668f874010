package store

import (
	"errors"
	"sync"

	"notes-service/internal/model"

	"gorm.io/gorm"
)

// FreePlanNoteLimit is the maximum number of notes a free-plan tenant may hold.
const FreePlanNoteLimit = 3

// ErrPlanLimit is returned when a free-plan tenant has reached its note quota.
var ErrPlanLimit = errors.New("free plan note limit reached")

// NoteStore persists notes. Every scoped method takes the caller's tenant ID
// explicitly so a query that forgets to filter by tenant is visible at the
// call site. Cross-tenant lookups return gorm.ErrRecordNotFound, never a
// distinguishable "forbidden" result.
type NoteStore struct {
	db *gorm.DB

	mu          sync.Mutex
	tenantLocks map[uint]*sync.Mutex
}

func NewNoteStore(db *gorm.DB) *NoteStore {
	return &NoteStore{
		db:          db,
		tenantLocks: make(map[uint]*sync.Mutex),
	}
}

// tenantLock returns the mutex serializing note creation for a tenant.
func (s *NoteStore) tenantLock(tenantID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.tenantLocks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.tenantLocks[tenantID] = lock
	}
	return lock
}

// CreateWithQuota creates a note after enforcing the tenant's plan quota. The
// plan is re-read from the store at call time, not taken from token claims, so
// an upgrade takes effect immediately. Count-check and insert run under a
// per-tenant lock so concurrent creations cannot overshoot the limit.
func (s *NoteStore) CreateWithQuota(tenantID, authorID uint, title, content string) (*model.Note, error) {
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	var tenant model.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		return nil, err
	}

	if tenant.Plan == model.PlanFree {
		var count int64
		if err := s.db.Model(&model.Note{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= FreePlanNoteLimit {
			return nil, ErrPlanLimit
		}
	}

	note := &model.Note{
		Title:    title,
		Content:  content,
		TenantID: tenantID,
		AuthorID: authorID,
	}
	if err := s.db.Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// ListByTenant returns all notes of a tenant with their authors joined in.
// No pagination; a full scan per request is accepted at this scale.
func (s *NoteStore) ListByTenant(tenantID uint) ([]model.Note, error) {
	var notes []model.Note
	if err := s.db.Preload("Author").Where("tenant_id = ?", tenantID).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// GetByTenant fetches a single note scoped to the tenant.
func (s *NoteStore) GetByTenant(tenantID, id uint) (*model.Note, error) {
	var note model.Note
	if err := s.db.Where("tenant_id = ?", tenantID).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateByTenant applies a partial update to a tenant's note. Fields absent
// from updates are left unchanged.
func (s *NoteStore) UpdateByTenant(tenantID, id uint, updates map[string]interface{}) (*model.Note, error) {
	note, err := s.GetByTenant(tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.Model(note).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return note, nil
}

// DeleteByTenant removes a tenant's note.
func (s *NoteStore) DeleteByTenant(tenantID, id uint) error {
	note, err := s.GetByTenant(tenantID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(note).Error
}

// CountByTenant returns the number of notes a tenant currently holds.
func (s *NoteStore) CountByTenant(tenantID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.Note{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
