package handlers

import (
	"fmt"
	"log"
	"time"

	"coffeetip/internal/models"
	"coffeetip/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthCookieName is the HTTP-only cookie carrying the session token.
const AuthCookieName = "auth_token"

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. Password change requires
// a valid session; the rest are public.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/sign-up", h.HandleSignUp)
	authRoutes.Post("/sign-in", h.HandleSignIn)
	authRoutes.Post("/logout", h.HandleLogout)

	authRoutes.Post("/update", authRequired, h.HandleChangePassword)
}

// SignUpRequest represents the request body for registration.
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleSignUp handles new user registration.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-up request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.authService.Register(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err)
	}

	// The password hash never leaves the server.
	return respondMessage(c, fiber.StatusCreated, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}, "User created successfully")
}

// SignInRequest represents the request body for login.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleSignIn authenticates a user, sets the session cookie and returns the
// user's id with the signed token.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-in request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	userID, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return respondMessage(c, fiber.StatusOK, fiber.Map{
		"id":    userID,
		"token": token,
	}, "Login successful")
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// HandleChangePassword replaces the authenticated user's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFailure(c, fiber.StatusUnauthorized, codeInvalidCredentials, "Authentication required")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing password change request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		log.Printf("Error changing password for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, nil, "Password updated successfully")
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return respondMessage(c, fiber.StatusOK, nil, "Logged out successfully")
}

// validationMessage flattens validator errors into a single human-readable
// message.
func validationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Validation failed"
	}
	msg := "Validation failed:"
	for _, e := range validationErrors {
		msg += fmt.Sprintf(" field '%s' failed on the '%s' tag;", e.Field(), e.Tag())
	}
	return msg
}
