package services_test

import (
	"fmt"
	"testing"

	"coffeetip/internal/models"
	"coffeetip/internal/repositories"
	"coffeetip/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a testify mock of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(id uint, hashedPassword string) error {
	args := m.Called(id, hashedPassword)
	return args.Error(0)
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{
		Username: "creator",
		Email:    "creator@example.com",
		Password: "password123",
	}

	// Successful registration hashes the password before storing.
	mockRepo.On("GetByUsername", user.Username).Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.Register(user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken.
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: 1}, nil).Once()
	err = authService.Register(user)
	assert.ErrorIs(t, err, services.ErrDuplicateUser)
	mockRepo.AssertExpectations(t)

	// Email already registered. A fresh mock so the earlier successful
	// insert cannot mask a write on this path.
	mockRepo = new(MockUserRepository)
	authService = services.NewAuthService(mockRepo, "test_jwt_secret")
	mockRepo.On("GetByUsername", user.Username).Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: 1}, nil).Once()
	err = authService.Register(user)
	assert.ErrorIs(t, err, services.ErrDuplicateUser)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	secret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, secret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       42,
		Username: "creator",
		Email:    "creator@example.com",
		Password: string(hashedPassword),
	}

	// Successful login returns the user id and a valid token.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	userID, token, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "creator", claims["username"])
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown email fail with the same error, so the
	// response cannot be used for user enumeration.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, wrongPassErr := authService.Login(user.Email, "wrongpassword")
	assert.ErrorIs(t, wrongPassErr, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, notFoundErr("user")).Once()
	_, _, wrongEmailErr := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, wrongEmailErr, services.ErrInvalidCredentials)

	assert.Equal(t, wrongPassErr.Error(), wrongEmailErr.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &models.User{ID: 7, Username: "creator", Password: string(hashedPassword)}

	// Wrong current password is rejected without touching the stored hash.
	mockRepo.On("GetByID", uint(7)).Return(user, nil).Once()
	err := authService.ChangePassword(7, "notmyoldpassword", "newpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)

	// Correct current password stores a new hash.
	mockRepo.On("GetByID", uint(7)).Return(user, nil).Once()
	mockRepo.On("UpdatePassword", uint(7), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) == nil
	})).Return(nil).Once()
	err = authService.ChangePassword(7, "oldpassword", "newpassword")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Unknown user.
	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr("user")).Once()
	err = authService.ChangePassword(99, "whatever", "newpassword")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: 3, Username: "creator", Email: "c@example.com", Password: string(hashedPassword)}

	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, token, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(3), claims["user_id"])

	_, err = authService.ValidateToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret must be rejected.
	otherService := services.NewAuthService(mockRepo, "other_secret")
	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)
}
