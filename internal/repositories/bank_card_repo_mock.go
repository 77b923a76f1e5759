package repositories

import (
	"fmt"
	"sync"
	"time"

	"coffeetip/internal/models"
)

// MockBankCardRepository is an in-memory implementation of BankCardRepository.
type MockBankCardRepository struct {
	cards  map[uint]models.BankCard
	users  *MockUserRepository
	nextID uint
	mu     sync.RWMutex
}

// NewMockBankCardRepository creates a new instance of MockBankCardRepository.
func NewMockBankCardRepository(users *MockUserRepository) *MockBankCardRepository {
	return &MockBankCardRepository{
		cards:  make(map[uint]models.BankCard),
		users:  users,
		nextID: 1,
	}
}

// CreateForUser stores the card and links it to the owning user.
func (r *MockBankCardRepository) CreateForUser(userID uint, card *models.BankCard) error {
	r.mu.Lock()
	card.UserID = userID
	if card.ID == 0 {
		card.ID = r.nextID
		r.nextID++
	}
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()
	r.cards[card.ID] = *card
	r.mu.Unlock()

	if r.users != nil {
		if err := r.users.SetBankCardID(userID, card.ID); err != nil {
			r.mu.Lock()
			delete(r.cards, card.ID)
			r.mu.Unlock()
			return err
		}
	}
	return nil
}

// GetByID returns a card by ID.
func (r *MockBankCardRepository) GetByID(id uint) (*models.BankCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok {
		return nil, fmt.Errorf("bank card with ID %d: %w", id, ErrNotFound)
	}
	c := card
	return &c, nil
}

// GetByUserID returns the card belonging to a user.
func (r *MockBankCardRepository) GetByUserID(userID uint) (*models.BankCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, card := range r.cards {
		if card.UserID == userID {
			c := card
			return &c, nil
		}
	}
	return nil, fmt.Errorf("bank card for user %d: %w", userID, ErrNotFound)
}

// Update applies a coalescing update keyed by column name.
func (r *MockBankCardRepository) Update(id uint, updates map[string]interface{}) (*models.BankCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[id]
	if !ok {
		return nil, fmt.Errorf("bank card with ID %d: %w", id, ErrNotFound)
	}
	for column, value := range updates {
		switch column {
		case "country":
			card.Country, _ = value.(string)
		case "first_name":
			card.FirstName, _ = value.(string)
		case "last_name":
			card.LastName, _ = value.(string)
		case "card_number":
			card.CardNumber, _ = value.(string)
		case "cvc":
			card.CVC, _ = value.(string)
		case "expiry_date":
			if t, ok := value.(time.Time); ok {
				card.ExpiryDate = t
			}
		}
	}
	card.UpdatedAt = time.Now()
	r.cards[id] = card
	c := card
	return &c, nil
}

// GetAll returns every stored card.
func (r *MockBankCardRepository) GetAll() ([]models.BankCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.BankCard, 0, len(r.cards))
	for _, card := range r.cards {
		list = append(list, card)
	}
	return list, nil
}
