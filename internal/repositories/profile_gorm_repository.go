package repositories

import (
	"errors"
	"fmt"

	"coffeetip/internal/models"

	"gorm.io/gorm"
)

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// CreateForUser inserts the profile row and points the owning user at it in a
// single transaction.
func (r *GORMProfileRepository) CreateForUser(userID uint, profile *models.Profile) error {
	profile.UserID = userID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("profile_id", profile.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %d: %w", userID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create profile for user %d: %w", userID, err)
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *GORMProfileRepository) GetByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by ID %d: %w", id, err)
	}
	return &profile, nil
}

// GetByUserID retrieves the profile owned by a user.
func (r *GORMProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}
	return &profile, nil
}

// Update applies a coalescing update: only the columns present in updates are
// replaced, everything else keeps its prior value.
func (r *GORMProfileRepository) Update(id uint, updates map[string]interface{}) (*models.Profile, error) {
	res := r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update profile %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("profile with ID %d: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}

// ListAllWithUsername returns every profile joined to its owner's username,
// newest first.
func (r *GORMProfileRepository) ListAllWithUsername() ([]models.ProfileWithUsername, error) {
	var profiles []models.ProfileWithUsername
	err := r.db.Table("profiles").
		Select("profiles.*, users.username").
		Joins("JOIN users ON users.profile_id = profiles.id").
		Order("profiles.created_at DESC").
		Scan(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
