package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"coffeetip/internal/models"
)

// MockDonationRepository is an in-memory implementation of DonationRepository.
type MockDonationRepository struct {
	donations map[uint]models.Donation
	users     *MockUserRepository
	profiles  *MockProfileRepository
	nextID    uint
	mu        sync.RWMutex
}

// NewMockDonationRepository creates a new instance of MockDonationRepository.
func NewMockDonationRepository(users *MockUserRepository, profiles *MockProfileRepository) *MockDonationRepository {
	return &MockDonationRepository{
		donations: make(map[uint]models.Donation),
		users:     users,
		profiles:  profiles,
		nextID:    1,
	}
}

// Create adds a new donation.
func (r *MockDonationRepository) Create(donation *models.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if donation.ID == 0 {
		donation.ID = r.nextID
		r.nextID++
	}
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = time.Now()
	r.donations[donation.ID] = *donation
	return nil
}

// ListByRecipient returns donations to a recipient, newest first.
func (r *MockDonationRepository) ListByRecipient(recipientID uint) ([]models.DonationWithDonor, error) {
	return r.collect(recipientID, models.DonationFilter{})
}

// Stats aggregates earnings for a recipient.
func (r *MockDonationRepository) Stats(recipientID uint) (*models.DonationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.DonationStats{}
	for _, donation := range r.donations {
		if donation.RecipientID == recipientID {
			stats.TotalEarnings += donation.Amount
			stats.DonationCount++
		}
	}
	return stats, nil
}

// Search filters donations to a recipient by the supplied predicates.
func (r *MockDonationRepository) Search(recipientID uint, filter models.DonationFilter) ([]models.DonationWithDonor, error) {
	return r.collect(recipientID, filter)
}

func (r *MockDonationRepository) collect(recipientID uint, filter models.DonationFilter) ([]models.DonationWithDonor, error) {
	r.mu.RLock()
	matched := make([]models.Donation, 0)
	for _, donation := range r.donations {
		if donation.RecipientID != recipientID {
			continue
		}
		if filter.MinAmount != nil && donation.Amount < *filter.MinAmount {
			continue
		}
		if filter.MaxAmount != nil && donation.Amount > *filter.MaxAmount {
			continue
		}
		if filter.StartDate != nil && donation.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && donation.CreatedAt.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, donation)
	}
	r.mu.RUnlock()

	results := make([]models.DonationWithDonor, 0, len(matched))
	for _, donation := range matched {
		entry := models.DonationWithDonor{
			ID:             donation.ID,
			Amount:         donation.Amount,
			SpecialMessage: donation.SpecialMessage,
			CreatedAt:      donation.CreatedAt,
			DonorID:        donation.DonorID,
		}
		if r.users != nil {
			if donor, err := r.users.GetByID(donation.DonorID); err == nil {
				entry.DonorName = donor.Username
				entry.DonorEmail = donor.Email
				if r.profiles != nil && donor.ProfileID != nil {
					if profile, err := r.profiles.GetByID(*donor.ProfileID); err == nil {
						entry.DonorImage = profile.AvatarImage
					}
				}
			}
		}
		if filter.DonorName != nil && entry.DonorName != "" &&
			!strings.Contains(strings.ToLower(entry.DonorName), strings.ToLower(*filter.DonorName)) {
			continue
		}
		results = append(results, entry)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}
