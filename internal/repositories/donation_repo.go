package repositories

import "coffeetip/internal/models"

// DonationRepository defines the interface for donation data access. The
// received and sent sets are derived from the recipient_id / donor_id columns;
// there is no id list to keep in sync, so Create is a single atomic insert.
type DonationRepository interface {
	Create(donation *models.Donation) error
	ListByRecipient(recipientID uint) ([]models.DonationWithDonor, error)
	Stats(recipientID uint) (*models.DonationStats, error)
	Search(recipientID uint, filter models.DonationFilter) ([]models.DonationWithDonor, error)
}
