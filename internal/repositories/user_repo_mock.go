package repositories

import (
	"fmt"
	"sync"
	"time"

	"coffeetip/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// Create adds a new user, assigning an ID if none is set.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("user with username %s or email %s already exists", user.Username, user.Email)
		}
	}
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	u := user
	return &u, nil
}

// SetProfileID links a created profile to its owning user.
func (r *MockUserRepository) SetProfileID(userID, profileID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with ID %d: %w", userID, ErrNotFound)
	}
	user.ProfileID = &profileID
	user.UpdatedAt = time.Now()
	r.users[userID] = user
	return nil
}

// SetBankCardID links a created bank card to its owning user.
func (r *MockUserRepository) SetBankCardID(userID, bankCardID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with ID %d: %w", userID, ErrNotFound)
	}
	user.BankCardID = &bankCardID
	user.UpdatedAt = time.Now()
	r.users[userID] = user
	return nil
}

// UpdatePassword replaces the stored hash for a user.
func (r *MockUserRepository) UpdatePassword(id uint, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	user.Password = hashedPassword
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}
