package repositories

import "coffeetip/internal/models"

// BankCardRepository defines the interface for bank card data access.
// CreateForUser carries the same atomic insert-and-link contract as
// ProfileRepository.CreateForUser.
type BankCardRepository interface {
	CreateForUser(userID uint, card *models.BankCard) error
	GetByID(id uint) (*models.BankCard, error)
	GetByUserID(userID uint) (*models.BankCard, error)
	Update(id uint, updates map[string]interface{}) (*models.BankCard, error)
	GetAll() ([]models.BankCard, error)
}
