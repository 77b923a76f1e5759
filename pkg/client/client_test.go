package client_test

import (
	"net"
	"testing"
	"time"

	"coffeetip/internal/handlers"
	"coffeetip/internal/middleware"
	"coffeetip/internal/models"
	"coffeetip/internal/repositories"
	"coffeetip/internal/services"
	"coffeetip/pkg/client"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs the full handler stack over in-memory repositories on a
// loopback listener and returns its base URL.
func startServer(t *testing.T) string {
	t.Helper()

	userRepo := repositories.NewMockUserRepository()
	profileRepo := repositories.NewMockProfileRepository(userRepo)
	bankCardRepo := repositories.NewMockBankCardRepository(userRepo)
	donationRepo := repositories.NewMockDonationRepository(userRepo, profileRepo)

	authService := services.NewAuthService(userRepo, "client_test_secret")
	profileService := services.NewProfileService(profileRepo, userRepo, bankCardRepo)
	bankCardService := services.NewBankCardService(bankCardRepo, userRepo)
	donationService := services.NewDonationService(donationRepo, userRepo, nil)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(api, authRequired)
	handlers.NewProfileHandler(profileService).RegisterRoutes(api, authRequired)
	handlers.NewBankCardHandler(bankCardService).RegisterRoutes(api, authRequired)
	handlers.NewDonationHandler(donationService).RegisterRoutes(api, authRequired)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return "http://" + ln.Addr().String()
}

func TestClientSessionFlow(t *testing.T) {
	baseURL := startServer(t)

	creator := client.New(baseURL)
	require.NoError(t, creator.SignUp("bob", "bob@example.com", "secret123"))
	require.NoError(t, creator.SignIn("bob@example.com", "secret123"))
	assert.NotZero(t, creator.UserID())
	assert.Empty(t, creator.LastError())

	require.NoError(t, creator.CreateProfile(models.Profile{
		Name:        "Bob",
		About:       "makes things",
		AvatarImage: "https://img.test/bob.png",
	}))
	require.NotNil(t, creator.Profile())
	assert.Equal(t, "Bob", creator.Profile().Name)

	// A donor only needs an account, not a session on the creator's client.
	donor := client.New(baseURL)
	require.NoError(t, donor.SignUp("alice", "alice@example.com", "secret123"))
	require.NoError(t, donor.SignIn("alice@example.com", "secret123"))

	donation, err := creator.CreateDonation(5, donor.UserID(), creator.UserID(), "nice", "")
	require.NoError(t, err)
	assert.Equal(t, 5.0, donation.Amount)

	// The cached feed and stats reflect the write without a manual refresh.
	feed := creator.Donations()
	require.Len(t, feed, 1)
	assert.Equal(t, "alice", feed[0].DonorName)
	assert.Equal(t, "nice", feed[0].SpecialMessage)

	stats := creator.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 5.0, stats.TotalEarnings)
	assert.Equal(t, int64(1), stats.DonationCount)

	// The donor's own session received nothing.
	require.NotNil(t, donor.Stats())
	assert.Equal(t, int64(0), donor.Stats().DonationCount)
}

func TestClientSearchDonations(t *testing.T) {
	baseURL := startServer(t)

	creator := client.New(baseURL)
	require.NoError(t, creator.SignUp("bob", "bob@example.com", "secret123"))
	require.NoError(t, creator.SignIn("bob@example.com", "secret123"))

	donor := client.New(baseURL)
	require.NoError(t, donor.SignUp("alice", "alice@example.com", "secret123"))
	require.NoError(t, donor.SignIn("alice@example.com", "secret123"))

	for _, amount := range []float64{3, 5, 10} {
		_, err := creator.CreateDonation(amount, donor.UserID(), creator.UserID(), "", "")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	minAmount, maxAmount := 5.0, 10.0
	results, err := creator.SearchDonations(models.DonationFilter{
		MinAmount: &minAmount,
		MaxAmount: &maxAmount,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 10.0, results[0].Amount)
	assert.Equal(t, 5.0, results[1].Amount)

	name := "ali"
	results, err = creator.SearchDonations(models.DonationFilter{DonorName: &name})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestClientBankCard(t *testing.T) {
	baseURL := startServer(t)

	creator := client.New(baseURL)
	require.NoError(t, creator.SignUp("bob", "bob@example.com", "secret123"))
	require.NoError(t, creator.SignIn("bob@example.com", "secret123"))
	require.NoError(t, creator.CreateProfile(models.Profile{
		Name:        "Bob",
		AvatarImage: "https://img.test/bob.png",
	}))

	require.NoError(t, creator.CreateBankCard(models.BankCard{
		Country:    "Georgia",
		FirstName:  "Bob",
		LastName:   "B",
		CardNumber: "4111111111111111",
		CVC:        "123",
	}, 7, 2027))

	card := creator.BankCard()
	require.NotNil(t, card)
	assert.Equal(t, "4111111111111111", card.CardNumber)
	assert.Equal(t, time.July, card.ExpiryDate.Month())
	assert.Equal(t, 2027, card.ExpiryDate.Year())
}

func TestClientRecordsFailures(t *testing.T) {
	baseURL := startServer(t)

	c := client.New(baseURL)
	err := c.SignIn("nobody@example.com", "wrong")
	require.Error(t, err)

	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.Zero(t, c.UserID())
	assert.NotEmpty(t, c.LastError())

	c.ClearError()
	assert.Empty(t, c.LastError())
}

func TestClientViewAndExplore(t *testing.T) {
	baseURL := startServer(t)

	creator := client.New(baseURL)
	require.NoError(t, creator.SignUp("bob", "bob@example.com", "secret123"))
	require.NoError(t, creator.SignIn("bob@example.com", "secret123"))
	require.NoError(t, creator.CreateProfile(models.Profile{
		Name:        "Bob",
		AvatarImage: "https://img.test/bob.png",
	}))

	// Anonymous visitors browse without a session.
	visitor := client.New(baseURL)
	profile, err := visitor.ViewProfile("bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", profile.Name)
	assert.Equal(t, models.DefaultSuccessMessage, profile.SuccessMessage)

	profiles, err := visitor.Explore()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "bob", profiles[0].Username)

	_, err = visitor.ViewProfile("ghost")
	require.Error(t, err)
	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}
