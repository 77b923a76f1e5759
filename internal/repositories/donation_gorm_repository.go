package repositories

import (
	"fmt"
	"strings"

	"coffeetip/internal/models"

	"gorm.io/gorm"
)

// GORMDonationRepository is a GORM implementation of DonationRepository.
type GORMDonationRepository struct {
	db *gorm.DB
}

// NewGORMDonationRepository creates a new instance of GORMDonationRepository.
func NewGORMDonationRepository(db *gorm.DB) *GORMDonationRepository {
	return &GORMDonationRepository{
		db: db,
	}
}

// Create inserts a donation row with server-assigned timestamps.
func (r *GORMDonationRepository) Create(donation *models.Donation) error {
	if err := r.db.Create(donation).Error; err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

// ListByRecipient returns every donation to a recipient joined to the donor's
// username, avatar and email, newest first.
func (r *GORMDonationRepository) ListByRecipient(recipientID uint) ([]models.DonationWithDonor, error) {
	var donations []models.DonationWithDonor
	err := r.db.Table("donations").
		Select(`donations.id, donations.amount, donations.special_message, donations.created_at,
			users.id AS donor_id, users.username AS donor_name, users.email AS donor_email,
			profiles.avatar_image AS donor_image`).
		Joins("JOIN users ON donations.donor_id = users.id").
		Joins("LEFT JOIN profiles ON users.profile_id = profiles.id").
		Where("donations.recipient_id = ?", recipientID).
		Order("donations.created_at DESC").
		Scan(&donations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list donations for recipient %d: %w", recipientID, err)
	}
	return donations, nil
}

// Stats aggregates a recipient's total earnings and donation count. A
// recipient with no donations gets zeroes, never NULLs.
func (r *GORMDonationRepository) Stats(recipientID uint) (*models.DonationStats, error) {
	var stats models.DonationStats
	err := r.db.Table("donations").
		Select("COALESCE(SUM(amount), 0) AS total_earnings, COUNT(*) AS donation_count").
		Where("recipient_id = ?", recipientID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate donations for recipient %d: %w", recipientID, err)
	}
	return &stats, nil
}

// Search applies each supplied filter as an additional bound-parameter
// predicate. Omitted filters impose no constraint; values are never
// interpolated into the query text.
func (r *GORMDonationRepository) Search(recipientID uint, filter models.DonationFilter) ([]models.DonationWithDonor, error) {
	query := r.db.Table("donations").
		Select(`donations.id, donations.amount, donations.special_message, donations.created_at,
			donations.donor_id, users.username AS donor_name, users.email AS donor_email,
			profiles.avatar_image AS donor_image`).
		Joins("LEFT JOIN users ON donations.donor_id = users.id").
		Joins("LEFT JOIN profiles ON users.profile_id = profiles.id").
		Where("donations.recipient_id = ?", recipientID)

	if filter.MinAmount != nil {
		query = query.Where("donations.amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("donations.amount <= ?", *filter.MaxAmount)
	}
	if filter.StartDate != nil {
		query = query.Where("donations.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("donations.created_at <= ?", *filter.EndDate)
	}
	if filter.DonorName != nil {
		// Case-insensitive substring match; donations whose donor row is
		// gone still match, mirroring the LEFT JOIN.
		pattern := "%" + strings.ToLower(*filter.DonorName) + "%"
		query = query.Where("(LOWER(users.username) LIKE ? OR users.username IS NULL)", pattern)
	}

	var donations []models.DonationWithDonor
	if err := query.Order("donations.created_at DESC").Scan(&donations).Error; err != nil {
		return nil, fmt.Errorf("failed to search donations for recipient %d: %w", recipientID, err)
	}
	return donations, nil
}
