package models

import "time"

// User represents an account holder: a creator receiving donations, a
// supporter sending them, or both.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	ProfileID  *uint     `json:"profileId"`
	BankCardID *uint     `json:"bankCardId"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
