package handlers

import (
	"log"

	"coffeetip/internal/models"
	"coffeetip/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BankCardHandler handles HTTP requests for payout cards.
type BankCardHandler struct {
	bankCardService *services.BankCardService
	validate        *validator.Validate
}

// NewBankCardHandler creates a new BankCardHandler.
func NewBankCardHandler(bankCardService *services.BankCardService) *BankCardHandler {
	return &BankCardHandler{
		bankCardService: bankCardService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the bank card routes; all of them require a
// session.
func (h *BankCardHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/bank-card", authRequired, h.HandleList)
	router.Post("/bank-card", authRequired, h.HandleCreate)
	router.Patch("/bank-card/update", authRequired, h.HandleUpdate)
}

// CreateBankCardRequest represents the request body for adding a card. Expiry
// month and year arrive as separate form fields.
type CreateBankCardRequest struct {
	Country     string `json:"country" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	CardNumber  string `json:"cardNumber" validate:"required,len=16,numeric"`
	ExpiryMonth int    `json:"expiryMonth" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiryYear" validate:"required,min=2000,max=2100"`
	CVC         string `json:"cvc" validate:"required,min=3,max=4,numeric"`
}

// HandleCreate adds the authenticated user's payout card and links it to the
// user row.
func (h *BankCardHandler) HandleCreate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFailure(c, fiber.StatusUnauthorized, codeInvalidCredentials, "Authentication required")
	}

	var req CreateBankCardRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing bank card create request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	card := models.BankCard{
		Country:    req.Country,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		CardNumber: req.CardNumber,
		CVC:        req.CVC,
	}
	if err := h.bankCardService.CreateBankCard(userID, &card, req.ExpiryMonth, req.ExpiryYear); err != nil {
		log.Printf("Error creating bank card for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusCreated, card, "Bank card added successfully")
}

// UpdateBankCardRequest represents the request body for a partial card update.
type UpdateBankCardRequest struct {
	BankCardID uint `json:"bankCardId" validate:"required"`
	services.BankCardUpdate
}

// HandleUpdate applies a coalescing update to a card. A lone expiryMonth or
// expiryYear is rejected.
func (h *BankCardHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateBankCardRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing bank card update request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	card, err := h.bankCardService.UpdateBankCard(req.BankCardID, req.BankCardUpdate)
	if err != nil {
		log.Printf("Error updating bank card %d: %v", req.BankCardID, err)
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, card, "Bank card updated successfully")
}

// HandleList returns every stored card.
func (h *BankCardHandler) HandleList(c *fiber.Ctx) error {
	cards, err := h.bankCardService.ListAll()
	if err != nil {
		log.Printf("Error listing bank cards: %v", err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, cards)
}
