package services

import (
	"errors"
	"fmt"
	"sync"

	"coffeetip/internal/models"
	"coffeetip/internal/repositories"
)

// ProfileService handles business logic for creator profiles.
type ProfileService struct {
	profileRepo  repositories.ProfileRepository
	userRepo     repositories.UserRepository
	bankCardRepo repositories.BankCardRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo repositories.ProfileRepository, userRepo repositories.UserRepository, bankCardRepo repositories.BankCardRepository) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		bankCardRepo: bankCardRepo,
	}
}

// ProfileUpdate carries the optional fields of a coalescing profile update. A
// nil field leaves the stored value untouched.
type ProfileUpdate struct {
	Name            *string `json:"name"`
	About           *string `json:"about"`
	AvatarImage     *string `json:"avatarImage" validate:"omitempty,url"`
	BackgroundImage *string `json:"backgroundImage" validate:"omitempty,url"`
	SocialMediaURL  *string `json:"socialMediaURL" validate:"omitempty,url"`
	SuccessMessage  *string `json:"successMessage"`
}

// CreateProfile inserts the profile and links it to its owning user.
func (s *ProfileService) CreateProfile(userID uint, profile *models.Profile) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if err := s.profileRepo.CreateForUser(userID, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByUsername resolves username -> user -> profile. A broken hop anywhere in
// the chain yields ErrProfileNotFound.
func (s *ProfileService) GetByUsername(username string) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	if user.ProfileID == nil {
		return nil, ErrProfileNotFound
	}

	profile, err := s.profileRepo.GetByID(*user.ProfileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile %d: %w", *user.ProfileID, err)
	}
	applySuccessMessageDefault(profile)
	return profile, nil
}

// UpdateProfile applies a coalescing update to the profile owned by userID.
func (s *ProfileService) UpdateProfile(userID uint, update ProfileUpdate) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if user.ProfileID == nil {
		return nil, ErrProfileNotFound
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.About != nil {
		updates["about"] = *update.About
	}
	if update.AvatarImage != nil {
		updates["avatar_image"] = *update.AvatarImage
	}
	if update.BackgroundImage != nil {
		updates["background_image"] = *update.BackgroundImage
	}
	if update.SocialMediaURL != nil {
		updates["social_media_url"] = *update.SocialMediaURL
	}
	if update.SuccessMessage != nil {
		updates["success_message"] = *update.SuccessMessage
	}

	if len(updates) == 0 {
		return s.profileRepo.GetByID(*user.ProfileID)
	}

	profile, err := s.profileRepo.Update(*user.ProfileID, updates)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// ListAll returns every profile with its owner's username for the public
// explore view, newest first.
func (s *ProfileService) ListAll() ([]models.ProfileWithUsername, error) {
	profiles, err := s.profileRepo.ListAllWithUsername()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	for i := range profiles {
		applySuccessMessageDefault(&profiles[i].Profile)
	}
	return profiles, nil
}

// CurrentUser fetches a user's profile and bank card. The two reads are
// independent and run concurrently. A missing bank card is not an error; a
// missing profile is.
func (s *ProfileService) CurrentUser(userID uint) (*models.Profile, *models.BankCard, error) {
	var (
		wg         sync.WaitGroup
		profile    *models.Profile
		profileErr error
		card       *models.BankCard
		cardErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = s.profileRepo.GetByUserID(userID)
	}()
	go func() {
		defer wg.Done()
		card, cardErr = s.bankCardRepo.GetByUserID(userID)
	}()
	wg.Wait()

	if profileErr != nil {
		if errors.Is(profileErr, repositories.ErrNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("failed to load profile for user %d: %w", userID, profileErr)
	}
	applySuccessMessageDefault(profile)

	if cardErr != nil {
		if !errors.Is(cardErr, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("failed to load bank card for user %d: %w", userID, cardErr)
		}
		card = nil
	}
	return profile, card, nil
}

func applySuccessMessageDefault(profile *models.Profile) {
	if profile.SuccessMessage == "" {
		profile.SuccessMessage = models.DefaultSuccessMessage
	}
}
