package repositories

import (
	"errors"
	"fmt"

	"coffeetip/internal/models"

	"gorm.io/gorm"
)

// GORMBankCardRepository is a GORM implementation of BankCardRepository.
type GORMBankCardRepository struct {
	db *gorm.DB
}

// NewGORMBankCardRepository creates a new instance of GORMBankCardRepository.
func NewGORMBankCardRepository(db *gorm.DB) *GORMBankCardRepository {
	return &GORMBankCardRepository{
		db: db,
	}
}

// CreateForUser inserts the card row and points the owning user at it in a
// single transaction.
func (r *GORMBankCardRepository) CreateForUser(userID uint, card *models.BankCard) error {
	card.UserID = userID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(card).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("bank_card_id", card.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %d: %w", userID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create bank card for user %d: %w", userID, err)
	}
	return nil
}

// GetByID retrieves a bank card by its ID.
func (r *GORMBankCardRepository) GetByID(id uint) (*models.BankCard, error) {
	var card models.BankCard
	if err := r.db.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bank card with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bank card by ID %d: %w", id, err)
	}
	return &card, nil
}

// GetByUserID retrieves the single card belonging to a user.
func (r *GORMBankCardRepository) GetByUserID(userID uint) (*models.BankCard, error) {
	var card models.BankCard
	if err := r.db.First(&card, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bank card for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bank card for user %d: %w", userID, err)
	}
	return &card, nil
}

// Update applies a coalescing update: only the supplied columns change.
func (r *GORMBankCardRepository) Update(id uint, updates map[string]interface{}) (*models.BankCard, error) {
	res := r.db.Model(&models.BankCard{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update bank card %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("bank card with ID %d: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}

// GetAll returns every stored bank card.
func (r *GORMBankCardRepository) GetAll() ([]models.BankCard, error) {
	var cards []models.BankCard
	if err := r.db.Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list bank cards: %w", err)
	}
	return cards, nil
}
