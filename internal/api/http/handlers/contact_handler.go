package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/dto"
	"github.com/reduxreimagine/portal-service/internal/service"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// ContactHandler serves the public contact form.
type ContactHandler struct {
	service *service.ContactService
}

// NewContactHandler constructs handler.
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{service: contactService}
}

// Submit POST /api/contact.
//
// The response body keeps the {success, error} shape the site's form
// expects; delivery failures include the fallback phone number so the
// visitor still has a way to reach us.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	err := h.service.Submit(c.Context(), c.IP(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err == nil {
		return c.JSON(dto.ContactResponse{Success: true})
	}

	if errors.Is(err, service.ErrRateLimited) {
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ContactResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	var de *apperrors.DomainError
	if errors.As(err, &de) && de.HTTPStatus == fiber.StatusBadRequest {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ContactResponse{
			Success: false,
			Error:   de.Message,
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(dto.ContactResponse{
		Success: false,
		Error:   fmt.Sprintf("Failed to send message. Please call us at %s.", h.service.FallbackPhone()),
	})
}
