package store

import (
	"notes-service/internal/model"

	"gorm.io/gorm"
)

// UserStore persists users.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail looks up a user by exact email match.
func (s *UserStore) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user with its tenant preloaded.
func (s *UserStore) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("Tenant").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. A duplicate email surfaces as
// gorm.ErrDuplicatedKey.
func (s *UserStore) Create(user *model.User) error {
	return s.db.Create(user).Error
}
