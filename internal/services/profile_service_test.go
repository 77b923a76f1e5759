package services_test

import (
	"testing"

	"coffeetip/internal/models"
	"coffeetip/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a testify mock of repositories.ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateForUser(userID uint, profile *models.Profile) error {
	args := m.Called(userID, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(id uint) (*models.Profile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(id uint, updates map[string]interface{}) (*models.Profile, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListAllWithUsername() ([]models.ProfileWithUsername, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProfileWithUsername), args.Error(1)
}

// MockBankCardRepository is a testify mock of repositories.BankCardRepository.
type MockBankCardRepository struct {
	mock.Mock
}

func (m *MockBankCardRepository) CreateForUser(userID uint, card *models.BankCard) error {
	args := m.Called(userID, card)
	return args.Error(0)
}

func (m *MockBankCardRepository) GetByID(id uint) (*models.BankCard, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankCard), args.Error(1)
}

func (m *MockBankCardRepository) GetByUserID(userID uint) (*models.BankCard, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankCard), args.Error(1)
}

func (m *MockBankCardRepository) Update(id uint, updates map[string]interface{}) (*models.BankCard, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankCard), args.Error(1)
}

func (m *MockBankCardRepository) GetAll() ([]models.BankCard, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BankCard), args.Error(1)
}

func newProfileService() (*services.ProfileService, *MockProfileRepository, *MockUserRepository, *MockBankCardRepository) {
	profileRepo := new(MockProfileRepository)
	userRepo := new(MockUserRepository)
	bankCardRepo := new(MockBankCardRepository)
	return services.NewProfileService(profileRepo, userRepo, bankCardRepo), profileRepo, userRepo, bankCardRepo
}

func TestProfileService_CreateProfile(t *testing.T) {
	service, profileRepo, userRepo, _ := newProfileService()

	profile := &models.Profile{Name: "A Creator", AvatarImage: "https://img.test/a.png"}

	userRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1}, nil).Once()
	profileRepo.On("CreateForUser", uint(1), profile).Return(nil).Once()
	assert.NoError(t, service.CreateProfile(1, profile))

	// Unknown user, nothing created.
	userRepo.On("GetByID", uint(9)).Return(nil, notFoundErr("user 9")).Once()
	err := service.CreateProfile(9, profile)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	profileRepo.AssertNumberOfCalls(t, "CreateForUser", 1)
}

func TestProfileService_UpdateProfile_Coalescing(t *testing.T) {
	service, profileRepo, userRepo, _ := newProfileService()

	profileID := uint(5)
	userRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1, ProfileID: &profileID}, nil).Once()

	// Only the supplied field lands in the update map; everything else is
	// left for COALESCE semantics to preserve.
	name := "New Name"
	profileRepo.On("Update", uint(5), map[string]interface{}{"name": "New Name"}).
		Return(&models.Profile{ID: 5, Name: "New Name", About: "kept"}, nil).Once()

	updated, err := service.UpdateProfile(1, services.ProfileUpdate{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "kept", updated.About)
	profileRepo.AssertExpectations(t)
}

func TestProfileService_UpdateProfile_NoProfile(t *testing.T) {
	service, _, userRepo, _ := newProfileService()

	userRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1}, nil).Once()
	name := "x"
	_, err := service.UpdateProfile(1, services.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, services.ErrProfileNotFound)
}

func TestProfileService_GetByUsername(t *testing.T) {
	service, profileRepo, userRepo, _ := newProfileService()

	profileID := uint(5)
	userRepo.On("GetByUsername", "creator").Return(&models.User{ID: 1, Username: "creator", ProfileID: &profileID}, nil).Once()
	profileRepo.On("GetByID", uint(5)).Return(&models.Profile{ID: 5, Name: "A Creator"}, nil).Once()

	profile, err := service.GetByUsername("creator")
	assert.NoError(t, err)
	assert.Equal(t, "A Creator", profile.Name)
	// Missing success message falls back to the default.
	assert.Equal(t, models.DefaultSuccessMessage, profile.SuccessMessage)

	// Unknown username and username without a profile look identical.
	userRepo.On("GetByUsername", "ghost").Return(nil, notFoundErr("user ghost")).Once()
	_, err = service.GetByUsername("ghost")
	assert.ErrorIs(t, err, services.ErrProfileNotFound)

	userRepo.On("GetByUsername", "newbie").Return(&models.User{ID: 2, Username: "newbie"}, nil).Once()
	_, err = service.GetByUsername("newbie")
	assert.ErrorIs(t, err, services.ErrProfileNotFound)
}

func TestProfileService_CurrentUser(t *testing.T) {
	service, profileRepo, _, bankCardRepo := newProfileService()

	profileRepo.On("GetByUserID", uint(1)).Return(&models.Profile{ID: 5, UserID: 1, Name: "A Creator"}, nil).Once()
	bankCardRepo.On("GetByUserID", uint(1)).Return(&models.BankCard{ID: 3, UserID: 1}, nil).Once()

	profile, card, err := service.CurrentUser(1)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), profile.ID)
	assert.Equal(t, uint(3), card.ID)

	// A missing bank card is not an error; the card is simply nil.
	profileRepo.On("GetByUserID", uint(2)).Return(&models.Profile{ID: 6, UserID: 2}, nil).Once()
	bankCardRepo.On("GetByUserID", uint(2)).Return(nil, notFoundErr("bank card")).Once()

	profile, card, err = service.CurrentUser(2)
	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Nil(t, card)

	// A missing profile is.
	profileRepo.On("GetByUserID", uint(3)).Return(nil, notFoundErr("profile")).Once()
	bankCardRepo.On("GetByUserID", uint(3)).Return(nil, notFoundErr("bank card")).Once()
	_, _, err = service.CurrentUser(3)
	assert.ErrorIs(t, err, services.ErrProfileNotFound)
}

func TestProfileService_ListAll(t *testing.T) {
	service, profileRepo, _, _ := newProfileService()

	profileRepo.On("ListAllWithUsername").Return([]models.ProfileWithUsername{
		{Profile: models.Profile{ID: 2, Name: "B"}, Username: "b"},
		{Profile: models.Profile{ID: 1, Name: "A", SuccessMessage: "custom"}, Username: "a"},
	}, nil).Once()

	profiles, err := service.ListAll()
	assert.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Equal(t, models.DefaultSuccessMessage, profiles[0].SuccessMessage)
	assert.Equal(t, "custom", profiles[1].SuccessMessage)
}
