package handlers

import (
	"errors"
	"log"

	"coffeetip/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes of the response envelope.
const (
	codeInvalidInput       = "INVALID_INPUT"
	codeNotFound           = "NOT_FOUND"
	codeDuplicateUser      = "DUPLICATE_USER"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeMissingIDs         = "MISSING_IDS"
	codeInvalidAmount      = "INVALID_AMOUNT"
	codeDonorNotFound      = "DONOR_NOT_FOUND"
	codeRecipientNotFound  = "RECIPIENT_NOT_FOUND"
	codeInternalError      = "INTERNAL_SERVER_ERROR"
)

func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func respondFailure(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// respondError maps a service error onto the envelope. Expected failures keep
// their message; anything unexpected is logged and returned as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingIDs):
		return respondFailure(c, fiber.StatusBadRequest, codeMissingIDs, err.Error())
	case errors.Is(err, services.ErrInvalidAmount):
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, services.ErrDuplicateUser):
		return respondFailure(c, fiber.StatusConflict, codeDuplicateUser, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondFailure(c, fiber.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrDonorNotFound):
		return respondFailure(c, fiber.StatusNotFound, codeDonorNotFound, err.Error())
	case errors.Is(err, services.ErrRecipientNotFound):
		return respondFailure(c, fiber.StatusNotFound, codeRecipientNotFound, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrBankCardNotFound):
		return respondFailure(c, fiber.StatusNotFound, codeNotFound, err.Error())
	default:
		log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
		return respondFailure(c, fiber.StatusInternalServerError, codeInternalError, "Something went wrong")
	}
}

// currentUserID reads the authenticated user's id placed in the request
// context by the auth middleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}
