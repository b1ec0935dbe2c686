package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/dto"
	"github.com/reduxreimagine/portal-service/internal/service"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// AuthHandler serves account and session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// SignUp POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	_, client, session, err := h.service.SignUp(c.Context(), req.FullName, req.CompanyName, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"client":  clientResponse(client),
		"session": sessionResponse(session),
	}})
}

// SignIn POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	_, session, err := h.service.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid email or password")
		}
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// SignOut POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SignOut(c.Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"signed_out": true}})
}

// Refresh POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	session, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// RequestPasswordReset POST /api/auth/reset-password.
//
// Always answers 200 regardless of whether the email is known, so the
// endpoint cannot be used to probe for accounts.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	if err := h.service.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"sent": true}})
}

// ConfirmPasswordReset POST /api/auth/reset-password/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	if err := h.service.ConfirmPasswordReset(c.Context(), req.AccessToken, req.RefreshToken, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func sessionResponse(s *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  s.AccessToken,
		ExpiresAt:    s.AccessExpiresAt,
		RefreshToken: s.RefreshToken,
	}
}
