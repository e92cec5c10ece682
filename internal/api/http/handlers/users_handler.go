package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-grievance/grievance-service/internal/api/dto"
	"github.com/campus-grievance/grievance-service/internal/auth"
	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/service"
	"github.com/campus-grievance/grievance-service/internal/validation"
	apperrors "github.com/campus-grievance/grievance-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth      *service.AuthService
	validator *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, v *validation.Validator) *UsersHandler {
	return &UsersHandler{auth: authService, validator: v}
}

// Signup handles POST /api/auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SignupResponse{
			Message: "user registered successfully",
			User:    dto.NewUserResponse(user),
		},
	})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
			Role:      res.User.Role,
			Name:      res.User.Name,
			Email:     res.User.Email,
		},
	})
}

// Me handles GET /api/auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.auth.Profile(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateMe handles PUT /api/auth/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), principal.UserID, service.ProfileUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.ProfileUpdateResponse{
			Message: "profile updated successfully",
			Name:    user.Name,
			Email:   user.Email,
			Role:    user.Role,
		},
	})
}
