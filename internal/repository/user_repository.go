package repository

import (
	"github.com/confhub/conference-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindSocial finds a social identity by service and provider id
func (r *GormUserRepository) FindSocial(service, socialID string) (*models.UserSocial, error) {
	var social models.UserSocial
	err := r.db.Where("service = ? AND social_id = ?", service, socialID).
		Preload("User").
		First(&social).Error
	if err != nil {
		return nil, err
	}
	return &social, nil
}

// CreateSocial records a new social identity for a user
func (r *GormUserRepository) CreateSocial(social *models.UserSocial) error {
	return r.db.Create(social).Error
}

// ListFeatured lists featured speakers
func (r *GormUserRepository) ListFeatured() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("featured = ?", true).Find(&users).Error
	return users, err
}
