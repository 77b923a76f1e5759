package services

import (
	"errors"
	"fmt"
	"time"

	"coffeetip/internal/models"
	"coffeetip/internal/repositories"
)

// BankCardService handles business logic for payout cards.
type BankCardService struct {
	bankCardRepo repositories.BankCardRepository
	userRepo     repositories.UserRepository
}

// NewBankCardService creates a new BankCardService.
func NewBankCardService(bankCardRepo repositories.BankCardRepository, userRepo repositories.UserRepository) *BankCardService {
	return &BankCardService{
		bankCardRepo: bankCardRepo,
		userRepo:     userRepo,
	}
}

// BankCardUpdate carries the optional fields of a coalescing bank card update.
// Expiry month and year must be supplied together or not at all.
type BankCardUpdate struct {
	Country     *string `json:"country"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	CardNumber  *string `json:"cardNumber" validate:"omitempty,len=16,numeric"`
	ExpiryMonth *int    `json:"expiryMonth" validate:"omitempty,min=1,max=12"`
	ExpiryYear  *int    `json:"expiryYear" validate:"omitempty,min=2000,max=2100"`
	CVC         *string `json:"cvc" validate:"omitempty,min=3,max=4,numeric"`
}

// CreateBankCard folds the entered expiry month and year into a first-of-month
// date, inserts the card and links it to its owning user.
func (s *BankCardService) CreateBankCard(userID uint, card *models.BankCard, expiryMonth, expiryYear int) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if expiryMonth < 1 || expiryMonth > 12 {
		return fmt.Errorf("expiry month %d: %w", expiryMonth, ErrInvalidInput)
	}
	card.ExpiryDate = expiryDate(expiryMonth, expiryYear)

	if err := s.bankCardRepo.CreateForUser(userID, card); err != nil {
		return fmt.Errorf("failed to create bank card: %w", err)
	}
	return nil
}

// UpdateBankCard applies a coalescing update. Supplying only one of
// expiryMonth/expiryYear is rejected rather than silently accepted.
func (s *BankCardService) UpdateBankCard(cardID uint, update BankCardUpdate) (*models.BankCard, error) {
	updates := make(map[string]interface{})
	if update.Country != nil {
		updates["country"] = *update.Country
	}
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.CardNumber != nil {
		updates["card_number"] = *update.CardNumber
	}
	if update.CVC != nil {
		updates["cvc"] = *update.CVC
	}

	if update.ExpiryMonth != nil || update.ExpiryYear != nil {
		if update.ExpiryMonth == nil || update.ExpiryYear == nil {
			return nil, fmt.Errorf("expiry month and year must be provided together: %w", ErrInvalidInput)
		}
		if *update.ExpiryMonth < 1 || *update.ExpiryMonth > 12 {
			return nil, fmt.Errorf("expiry month %d: %w", *update.ExpiryMonth, ErrInvalidInput)
		}
		updates["expiry_date"] = expiryDate(*update.ExpiryMonth, *update.ExpiryYear)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", ErrInvalidInput)
	}

	card, err := s.bankCardRepo.Update(cardID, updates)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBankCardNotFound
		}
		return nil, fmt.Errorf("failed to update bank card: %w", err)
	}
	return card, nil
}

// ListAll returns every stored card.
func (s *BankCardService) ListAll() ([]models.BankCard, error) {
	return s.bankCardRepo.GetAll()
}

// expiryDate combines a month and year into the first of that month, UTC.
func expiryDate(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
