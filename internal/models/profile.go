package models

import "time"

// DefaultSuccessMessage is shown to a supporter after donating when the
// creator has not configured their own thank-you text.
const DefaultSuccessMessage = "Thank you for your support!"

// Profile is a creator's public page content.
type Profile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"userId" gorm:"index"`
	Name            string    `json:"name" validate:"required,min=1,max=100"`
	About           string    `json:"about" validate:"omitempty,max=1000"`
	AvatarImage     string    `json:"avatarImage" validate:"required,url"`
	BackgroundImage string    `json:"backgroundImage" validate:"omitempty,url"`
	SocialMediaURL  string    `json:"socialMediaURL" validate:"omitempty,url"`
	SuccessMessage  string    `json:"successMessage" validate:"omitempty,max=500"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileWithUsername is a Profile joined to its owner's username, used by the
// public explore listing.
type ProfileWithUsername struct {
	Profile
	Username string `json:"username"`
}
