package handlers

import (
	"log"

	"coffeetip/internal/models"
	"coffeetip/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for creator profiles.
type ProfileHandler struct {
	profileService *services.ProfileService
	validate       *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the profile routes. Public pages (view, explore)
// need no session; everything touching the caller's own data does.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/profile/view/:username", h.HandleView)
	router.Get("/profile/explore", h.HandleExplore)

	router.Post("/profile", authRequired, h.HandleCreate)
	router.Patch("/profile/update", authRequired, h.HandleUpdate)
	router.Post("/profile/current-user", authRequired, h.HandleCurrentUser)
}

// CreateProfileRequest represents the request body for profile creation.
type CreateProfileRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	About           string `json:"about" validate:"omitempty,max=1000"`
	AvatarImage     string `json:"avatarImage" validate:"required,url"`
	BackgroundImage string `json:"backgroundImage" validate:"omitempty,url"`
	SocialMediaURL  string `json:"socialMediaURL" validate:"omitempty,url"`
	SuccessMessage  string `json:"successMessage" validate:"omitempty,max=500"`
}

// HandleCreate creates the authenticated user's profile and links it to the
// user row.
func (h *ProfileHandler) HandleCreate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFailure(c, fiber.StatusUnauthorized, codeInvalidCredentials, "Authentication required")
	}

	var req CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile create request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	profile := models.Profile{
		Name:            req.Name,
		About:           req.About,
		AvatarImage:     req.AvatarImage,
		BackgroundImage: req.BackgroundImage,
		SocialMediaURL:  req.SocialMediaURL,
		SuccessMessage:  req.SuccessMessage,
	}
	if err := h.profileService.CreateProfile(userID, &profile); err != nil {
		log.Printf("Error creating profile for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusCreated, profile, "Profile created successfully")
}

// HandleUpdate applies a coalescing update to the authenticated user's
// profile: fields absent from the body keep their prior value.
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFailure(c, fiber.StatusUnauthorized, codeInvalidCredentials, "Authentication required")
	}

	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, validationMessage(err))
	}

	profile, err := h.profileService.UpdateProfile(userID, req)
	if err != nil {
		log.Printf("Error updating profile for user %d: %v", userID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, profile)
}

// HandleView returns a creator's public profile by username.
func (h *ProfileHandler) HandleView(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return respondFailure(c, fiber.StatusBadRequest, codeInvalidInput, "Username is required")
	}

	profile, err := h.profileService.GetByUsername(username)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, profile)
}

// HandleExplore lists every creator profile with its owner's username, newest
// first.
func (h *ProfileHandler) HandleExplore(c *fiber.Ctx) error {
	profiles, err := h.profileService.ListAll()
	if err != nil {
		log.Printf("Error listing profiles: %v", err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, profiles)
}

// HandleCurrentUser returns the authenticated user's profile and bank card.
func (h *ProfileHandler) HandleCurrentUser(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFailure(c, fiber.StatusUnauthorized, codeInvalidCredentials, "Authentication required")
	}

	profile, card, err := h.profileService.CurrentUser(userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{
		"profile":  profile,
		"bankCard": card,
	})
}
