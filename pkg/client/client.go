// Package client is a small API client for the coffeetip backend. It mirrors
// the state the web dashboard keeps per session: the signed-in user, their
// profile and bank card, and their donation feed with aggregate stats. Cached
// state is re-fetched after every mutation so readers never observe a stale
// aggregate after a write.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"coffeetip/internal/models"
	"coffeetip/internal/services"
)

// Client holds a session with the coffeetip API plus the last-fetched state.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.RWMutex
	userID    uint
	token     string
	profile   *models.Profile
	bankCard  *models.BankCard
	donations []models.DonationWithDonor
	stats     *models.DonationStats
	loading   bool
	lastError string
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// SignUp registers a new account. It does not sign the user in; call SignIn
// afterwards, matching the onboarding flow.
func (c *Client) SignUp(username, email, password string) error {
	c.begin()
	defer c.end()

	err := c.post("/api/auth/sign-up", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	return c.record(err)
}

// SignIn authenticates and stores the session, then refreshes the cached
// profile and donation state for the new user.
func (c *Client) SignIn(email, password string) error {
	c.begin()
	defer c.end()

	var data struct {
		ID    uint   `json:"id"`
		Token string `json:"token"`
	}
	if err := c.post("/api/auth/sign-in", map[string]string{
		"email":    email,
		"password": password,
	}, &data); err != nil {
		return c.record(err)
	}

	c.mu.Lock()
	c.userID = data.ID
	c.token = data.Token
	c.mu.Unlock()

	return c.record(c.refreshAll())
}

// Logout clears the server cookie and drops all cached session state.
func (c *Client) Logout() error {
	err := c.post("/api/auth/logout", nil, nil)

	c.mu.Lock()
	c.userID = 0
	c.token = ""
	c.profile = nil
	c.bankCard = nil
	c.donations = nil
	c.stats = nil
	c.lastError = ""
	c.mu.Unlock()
	return err
}

// CreateProfile creates the signed-in user's profile and refreshes the cached
// copy.
func (c *Client) CreateProfile(profile models.Profile) error {
	c.begin()
	defer c.end()

	if err := c.post("/api/profile", profile, nil); err != nil {
		return c.record(err)
	}
	return c.record(c.refreshProfile())
}

// UpdateProfile applies a partial update and refreshes the cached profile.
func (c *Client) UpdateProfile(update services.ProfileUpdate) error {
	c.begin()
	defer c.end()

	if err := c.do(http.MethodPatch, "/api/profile/update", update, nil); err != nil {
		return c.record(err)
	}
	return c.record(c.refreshProfile())
}

// ViewProfile fetches a creator's public profile by username. The result is
// not cached; it belongs to the viewed creator, not this session.
func (c *Client) ViewProfile(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.get("/api/profile/view/"+username, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Explore lists every creator profile.
func (c *Client) Explore() ([]models.ProfileWithUsername, error) {
	var profiles []models.ProfileWithUsername
	if err := c.get("/api/profile/explore", &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// CreateDonation records a donation and refreshes the cached donation feed
// and stats, so a subsequent Stats() read reflects the write.
func (c *Client) CreateDonation(amount float64, donorID, recipientID uint, specialMessage, socialURL string) (*models.Donation, error) {
	c.begin()
	defer c.end()

	var donation models.Donation
	err := c.post("/api/donation/create-donation", map[string]interface{}{
		"amount":         amount,
		"donorId":        donorID,
		"recipientId":    recipientID,
		"specialMessage": specialMessage,
		"socialURL":      socialURL,
	}, &donation)
	if err != nil {
		return nil, c.record(err)
	}
	return &donation, c.record(c.refreshDonations())
}

// SearchDonations runs a filtered search over the signed-in user's received
// donations.
func (c *Client) SearchDonations(filter models.DonationFilter) ([]models.DonationWithDonor, error) {
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()

	body := map[string]interface{}{"userId": userID}
	if filter.MinAmount != nil {
		body["minAmount"] = *filter.MinAmount
	}
	if filter.MaxAmount != nil {
		body["maxAmount"] = *filter.MaxAmount
	}
	if filter.StartDate != nil {
		body["startDate"] = filter.StartDate.Format(time.RFC3339)
	}
	if filter.EndDate != nil {
		body["endDate"] = filter.EndDate.Format(time.RFC3339)
	}
	if filter.DonorName != nil {
		body["donorName"] = *filter.DonorName
	}

	var donations []models.DonationWithDonor
	if err := c.post("/api/donation/search-donation", body, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// CreateBankCard adds the signed-in user's payout card and refreshes the
// cached card.
func (c *Client) CreateBankCard(card models.BankCard, expiryMonth, expiryYear int) error {
	c.begin()
	defer c.end()

	err := c.post("/api/bank-card", map[string]interface{}{
		"country":     card.Country,
		"firstName":   card.FirstName,
		"lastName":    card.LastName,
		"cardNumber":  card.CardNumber,
		"expiryMonth": expiryMonth,
		"expiryYear":  expiryYear,
		"cvc":         card.CVC,
	}, nil)
	if err != nil {
		return c.record(err)
	}
	return c.record(c.refreshProfile())
}

// UserID returns the signed-in user's id, zero when signed out.
func (c *Client) UserID() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// Profile returns the cached profile, nil before the first fetch.
func (c *Client) Profile() *models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// BankCard returns the cached payout card, nil when none is configured.
func (c *Client) BankCard() *models.BankCard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bankCard
}

// Donations returns the cached received-donation feed.
func (c *Client) Donations() []models.DonationWithDonor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.donations
}

// Stats returns the cached aggregate stats, nil before the first fetch.
func (c *Client) Stats() *models.DonationStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Loading reports whether a request is in flight.
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// LastError returns the message of the most recent failure, empty after a
// success or ClearError.
func (c *Client) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// ClearError resets the stored failure message.
func (c *Client) ClearError() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
}

func (c *Client) refreshAll() error {
	if err := c.refreshProfile(); err != nil {
		return err
	}
	return c.refreshDonations()
}

// refreshProfile re-fetches the session's profile and bank card. A user who
// has not finished onboarding has no profile yet; that is not an error.
func (c *Client) refreshProfile() error {
	var data struct {
		Profile  *models.Profile  `json:"profile"`
		BankCard *models.BankCard `json:"bankCard"`
	}
	err := c.post("/api/profile/current-user", nil, &data)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Code == "NOT_FOUND" {
			return nil
		}
		return err
	}

	c.mu.Lock()
	c.profile = data.Profile
	c.bankCard = data.BankCard
	c.mu.Unlock()
	return nil
}

// refreshDonations re-fetches the donation feed and the aggregate stats.
func (c *Client) refreshDonations() error {
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()
	if userID == 0 {
		return nil
	}

	var donations []models.DonationWithDonor
	if err := c.get(fmt.Sprintf("/api/donation/received/%d", userID), &donations); err != nil {
		return err
	}
	var stats models.DonationStats
	if err := c.get(fmt.Sprintf("/api/donation/total-earnings/%d", userID), &stats); err != nil {
		return err
	}

	c.mu.Lock()
	c.donations = donations
	c.stats = &stats
	c.mu.Unlock()
	return nil
}

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *Client) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Code: env.Error, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) begin() {
	c.mu.Lock()
	c.loading = true
	c.lastError = ""
	c.mu.Unlock()
}

func (c *Client) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *Client) record(err error) error {
	if err != nil {
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
	}
	return err
}
