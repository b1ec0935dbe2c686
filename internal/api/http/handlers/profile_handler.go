package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/dto"
	"github.com/reduxreimagine/portal-service/internal/auth"
	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/service"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// ProfileHandler serves the signed-in client's profile.
type ProfileHandler struct {
	service *service.ClientService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(clientService *service.ClientService) *ProfileHandler {
	return &ProfileHandler{service: clientService}
}

// GetProfile GET /api/profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in required")
	}
	client, err := h.service.GetProfile(c.Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// UpdatePhone PATCH /api/profile/phone.
func (h *ProfileHandler) UpdatePhone(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in required")
	}
	var req dto.UpdatePhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, err := h.service.UpdatePhone(c.Context(), identity.ID, req.PhoneNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:           client.ID,
		FullName:     client.FullName,
		CompanyName:  client.CompanyName,
		ContactEmail: client.ContactEmail,
		PhoneNumber:  client.PhoneNumber,
		CreatedAt:    client.CreatedAt,
	}
}
