package repositories

import "coffeetip/internal/models"

// ProfileRepository defines the interface for profile data access.
//
// CreateForUser inserts the profile and sets the owning user's profileId
// pointer as one atomic unit, so a failure cannot leave an orphaned profile
// behind a user with a nil pointer.
type ProfileRepository interface {
	CreateForUser(userID uint, profile *models.Profile) error
	GetByID(id uint) (*models.Profile, error)
	GetByUserID(userID uint) (*models.Profile, error)
	Update(id uint, updates map[string]interface{}) (*models.Profile, error)
	ListAllWithUsername() ([]models.ProfileWithUsername, error)
}
