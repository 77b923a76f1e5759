package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"coffeetip/internal/models"
	"coffeetip/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// DonationService handles business logic for recording and reading donations.
type DonationService struct {
	donationRepo repositories.DonationRepository
	userRepo     repositories.UserRepository
	publisher    EventPublisher
}

// NewDonationService creates a new DonationService.
func NewDonationService(donationRepo repositories.DonationRepository, userRepo repositories.UserRepository, publisher EventPublisher) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		userRepo:     userRepo,
		publisher:    publisher,
	}
}

// CreateDonation records a donation from donor to recipient. Validation
// failures happen before any write: both ids must be present, the amount must
// be positive, and both parties must resolve to existing users. On success a
// donation.created event is published; a publish failure is logged but does
// not fail the donation.
func (s *DonationService) CreateDonation(amount float64, donorID, recipientID uint, specialMessage, socialURL string) (*models.Donation, error) {
	if donorID == 0 || recipientID == 0 {
		return nil, ErrMissingIDs
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.userRepo.GetByID(donorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to look up donor %d: %w", donorID, err)
	}
	if _, err := s.userRepo.GetByID(recipientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to look up recipient %d: %w", recipientID, err)
	}

	donation := &models.Donation{
		Amount:         amount,
		SpecialMessage: specialMessage,
		SocialURL:      socialURL,
		DonorID:        donorID,
		RecipientID:    recipientID,
	}
	if err := s.donationRepo.Create(donation); err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	s.publishCreated(donation)
	return donation, nil
}

// ReceivedDonations returns the donations sent to a recipient, newest first,
// flattened with each donor's display fields.
func (s *DonationService) ReceivedDonations(userID uint) ([]models.DonationWithDonor, error) {
	return s.donationRepo.ListByRecipient(userID)
}

// Stats aggregates a recipient's total earnings and donation count.
func (s *DonationService) Stats(userID uint) (*models.DonationStats, error) {
	return s.donationRepo.Stats(userID)
}

// Search filters a recipient's donations by amount range, date range and donor
// name. Omitted filters impose no constraint.
func (s *DonationService) Search(userID uint, filter models.DonationFilter) ([]models.DonationWithDonor, error) {
	return s.donationRepo.Search(userID, filter)
}

func (s *DonationService) publishCreated(donation *models.Donation) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping donation.created event.")
		return
	}

	event := map[string]interface{}{
		"eventId":     uuid.New().String(),
		"donationId":  donation.ID,
		"donorId":     donation.DonorID,
		"recipientId": donation.RecipientID,
		"amount":      donation.Amount,
		"createdAt":   donation.CreatedAt.Format(time.RFC3339),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal donation event: %v", err)
		return
	}
	if err := s.publisher.Publish("donation", "donation.created", body); err != nil {
		log.Printf("Warning: Failed to publish donation.created event for donation %d: %v", donation.ID, err)
	}
}
