package models

import "time"

// BankCard is a creator's single payout card. The expiry month and year
// entered on the form are folded into a first-of-month ExpiryDate.
type BankCard struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userId" gorm:"index"`
	Country    string    `json:"country" validate:"required"`
	FirstName  string    `json:"firstName" validate:"required"`
	LastName   string    `json:"lastName" validate:"required"`
	CardNumber string    `json:"cardNumber" gorm:"type:varchar(16)" validate:"required,len=16,numeric"`
	ExpiryDate time.Time `json:"expiryDate"`
	CVC        string    `json:"cvc" gorm:"type:varchar(4)" validate:"required,min=3,max=4,numeric"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
