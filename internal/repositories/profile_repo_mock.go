package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"coffeetip/internal/models"
)

// MockProfileRepository is an in-memory implementation of ProfileRepository.
// It shares the MockUserRepository so that CreateForUser can honor the same
// profile-pointer contract as the transactional GORM implementation.
type MockProfileRepository struct {
	profiles map[uint]models.Profile
	users    *MockUserRepository
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProfileRepository creates a new instance of MockProfileRepository.
func NewMockProfileRepository(users *MockUserRepository) *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[uint]models.Profile),
		users:    users,
		nextID:   1,
	}
}

// CreateForUser stores the profile and links it to the owning user.
func (r *MockProfileRepository) CreateForUser(userID uint, profile *models.Profile) error {
	r.mu.Lock()
	profile.UserID = userID
	if profile.ID == 0 {
		profile.ID = r.nextID
		r.nextID++
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	r.profiles[profile.ID] = *profile
	r.mu.Unlock()

	if r.users != nil {
		if err := r.users.SetProfileID(userID, profile.ID); err != nil {
			r.mu.Lock()
			delete(r.profiles, profile.ID)
			r.mu.Unlock()
			return err
		}
	}
	return nil
}

// GetByID returns a profile by ID.
func (r *MockProfileRepository) GetByID(id uint) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile with ID %d: %w", id, ErrNotFound)
	}
	p := profile
	return &p, nil
}

// GetByUserID returns the profile owned by a user.
func (r *MockProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.profiles {
		if profile.UserID == userID {
			p := profile
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile for user %d: %w", userID, ErrNotFound)
}

// Update applies a coalescing update keyed by column name.
func (r *MockProfileRepository) Update(id uint, updates map[string]interface{}) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile with ID %d: %w", id, ErrNotFound)
	}
	for column, value := range updates {
		s, _ := value.(string)
		switch column {
		case "name":
			profile.Name = s
		case "about":
			profile.About = s
		case "avatar_image":
			profile.AvatarImage = s
		case "background_image":
			profile.BackgroundImage = s
		case "social_media_url":
			profile.SocialMediaURL = s
		case "success_message":
			profile.SuccessMessage = s
		}
	}
	profile.UpdatedAt = time.Now()
	r.profiles[id] = profile
	p := profile
	return &p, nil
}

// ListAllWithUsername returns every profile with its owner's username, newest
// first.
func (r *MockProfileRepository) ListAllWithUsername() ([]models.ProfileWithUsername, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.ProfileWithUsername, 0, len(r.profiles))
	for _, profile := range r.profiles {
		entry := models.ProfileWithUsername{Profile: profile}
		if r.users != nil {
			if user, err := r.users.GetByID(profile.UserID); err == nil {
				entry.Username = user.Username
			}
		}
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
