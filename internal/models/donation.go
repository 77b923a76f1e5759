package models

import "time"

// Donation records a single payment from a donor to a recipient. Both sides
// are plain User references; received/sent sets are always derived by querying
// recipient_id / donor_id rather than kept as id lists on the User row.
type Donation struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Amount         float64   `json:"amount" validate:"required,gt=0"`
	SpecialMessage string    `json:"specialMessage"`
	SocialURL      string    `json:"socialURL" validate:"omitempty,url"`
	DonorID        uint      `json:"donorId" gorm:"index"`
	RecipientID    uint      `json:"recipientId" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DonationWithDonor flattens a donation with the donor's display fields for
// the recipient's dashboard feed.
type DonationWithDonor struct {
	ID             uint      `json:"id"`
	Amount         float64   `json:"amount"`
	SpecialMessage string    `json:"specialMessage"`
	CreatedAt      time.Time `json:"created_at"`
	DonorID        uint      `json:"donorId"`
	DonorName      string    `json:"donorName"`
	DonorImage     string    `json:"donorImage"`
	DonorEmail     string    `json:"donorEmail"`
}

// DonationStats aggregates a recipient's earnings. Both fields are zero, never
// absent, for a recipient with no donations.
type DonationStats struct {
	TotalEarnings float64 `json:"totalEarnings"`
	DonationCount int64   `json:"donationCount"`
}

// DonationFilter holds the optional predicates of a donation search. A nil
// field imposes no constraint.
type DonationFilter struct {
	MinAmount *float64   `json:"minAmount"`
	MaxAmount *float64   `json:"maxAmount"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	DonorName *string    `json:"donorName"`
}
