package repositories

import (
	"errors"

	"coffeetip/internal/models"
)

// ErrNotFound is wrapped by every repository lookup miss so that callers can
// tell a missing row apart from a database failure.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	UpdatePassword(id uint, hashedPassword string) error
}
