package handlers

import (
	"log"
	"strconv"
	"time"

	"coffeetip/internal/models"
	"coffeetip/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DonationHandler handles HTTP requests for the donation ledger.
type DonationHandler struct {
	donationService *services.DonationService
	validate        *validator.Validate
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the donation routes. Creating a donation is public
// (guests donate without a session); reading a recipient's ledger requires
// one. The read endpoints accept both GET with a path id and POST with a JSON
// body.
func (h *DonationHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/donation/create-donation", h.HandleCreate)

	router.Get("/donation/received/:userId", authRequired, h.HandleReceived)
	router.Post("/donation/received", authRequired, h.HandleReceived)
	router.Get("/donation/total-earnings/:userId", authRequired, h.HandleTotalEarnings)
	router.Post("/donation/total-earnings", authRequired, h.HandleTotalEarnings)
	router.Get("/donation/search-donation/:userId", authRequired, h.HandleSearch)
	router.Post("/donation/search-donation", authRequired, h.HandleSearch)
}

// CreateDonationRequest represents the request body for recording a donation.
type CreateDonationRequest struct {
	Amount         float64 `json:"amount"`
	DonorID        uint    `json:"donorId"`
	RecipientID    uint    `json:"recipientId"`
	SpecialMessage string  `json:"specialMessage"`
	SocialURL      string  `json:"socialURL" validate:"omitempty,url"`
}

// HandleCreate records a donation. Validation order follows the service:
// missing ids, non-positive amount, unknown donor, unknown recipient.
func (h *DonationHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing donation request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	donation, err := h.donationService.CreateDonation(req.Amount, req.DonorID, req.RecipientID, req.SpecialMessage, req.SocialURL)
	if err != nil {
		log.Printf("Error creating donation: %v", err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, donation)
}

// HandleReceived lists the donations sent to a recipient, newest first.
func (h *DonationHandler) HandleReceived(c *fiber.Ctx) error {
	userID, err := h.recipientID(c)
	if err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "User ID must be a number")
	}

	donations, err := h.donationService.ReceivedDonations(userID)
	if err != nil {
		log.Printf("Error listing donations for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, donations)
}

// HandleTotalEarnings returns a recipient's aggregate stats. A recipient with
// no donations gets zeroes.
func (h *DonationHandler) HandleTotalEarnings(c *fiber.Ctx) error {
	userID, err := h.recipientID(c)
	if err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "User ID must be a number")
	}

	stats, err := h.donationService.Stats(userID)
	if err != nil {
		log.Printf("Error aggregating donations for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, stats)
}

// SearchDonationRequest represents the POST body for a donation search. All
// filters are optional; dates accept RFC 3339 or plain YYYY-MM-DD.
type SearchDonationRequest struct {
	UserID    uint     `json:"userId"`
	MinAmount *float64 `json:"minAmount"`
	MaxAmount *float64 `json:"maxAmount"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	DonorName *string  `json:"donorName"`
}

// HandleSearch filters a recipient's donations by amount range, date range
// and donor name.
func (h *DonationHandler) HandleSearch(c *fiber.Ctx) error {
	var (
		userID uint
		req    SearchDonationRequest
	)

	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing donation search request body: %v", err)
			return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
		}
		if req.UserID == 0 {
			return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "User ID must be a number")
		}
		userID = req.UserID
	} else {
		id, err := h.recipientID(c)
		if err != nil {
			return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "User ID must be a number")
		}
		userID = id
		req = searchRequestFromQuery(c)
	}

	filter := models.DonationFilter{
		MinAmount: req.MinAmount,
		MaxAmount: req.MaxAmount,
		DonorName: req.DonorName,
	}
	var err error
	if filter.StartDate, err = parseFilterDate(req.StartDate); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid start date")
	}
	if filter.EndDate, err = parseFilterDate(req.EndDate); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid end date")
	}

	donations, err := h.donationService.Search(userID, filter)
	if err != nil {
		log.Printf("Error searching donations for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, donations)
}

// recipientID resolves the target user id from the path parameter or, for
// POSTs without one, from the request body.
func (h *DonationHandler) recipientID(c *fiber.Ctx) (uint, error) {
	if param := c.Params("userId"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil || id == 0 {
			return 0, strconv.ErrSyntax
		}
		return uint(id), nil
	}

	var body struct {
		UserID uint `json:"userId"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserID == 0 {
		return 0, strconv.ErrSyntax
	}
	return body.UserID, nil
}

func searchRequestFromQuery(c *fiber.Ctx) SearchDonationRequest {
	var req SearchDonationRequest
	if v := c.Query("minAmount"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			req.MinAmount = &f
		}
	}
	if v := c.Query("maxAmount"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			req.MaxAmount = &f
		}
	}
	if v := c.Query("startDate"); v != "" {
		req.StartDate = &v
	}
	if v := c.Query("endDate"); v != "" {
		req.EndDate = &v
	}
	if v := c.Query("donorName"); v != "" {
		req.DonorName = &v
	}
	return req
}

func parseFilterDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
