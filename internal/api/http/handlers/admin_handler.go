package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/dto"
	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/service"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// AdminHandler serves the admin dashboard, client directory, and
// allowlist management.
type AdminHandler struct {
	admins  *service.AdminService
	clients *service.ClientService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService, clientService *service.ClientService) *AdminHandler {
	return &AdminHandler{admins: adminService, clients: clientService}
}

// Dashboard GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.admins.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"clients":         stats.Clients,
		"open_tickets":    stats.OpenTickets,
		"unpaid_invoices": stats.UnpaidInvoices,
	}})
}

// ListClients GET /api/admin/clients.
func (h *AdminHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.clients.ListClients(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAdmins GET /api/admin/admins.
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	entries, err := h.admins.ListAdmins(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AdminEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, adminEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddAdmin POST /api/admin/admins.
func (h *AdminHandler) AddAdmin(c *fiber.Ctx) error {
	var req dto.AddAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	entry, err := h.admins.AddAdmin(c.Context(), req.Email, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": adminEntryResponse(entry)})
}

// RemoveAdmin DELETE /api/admin/admins/:id.
func (h *AdminHandler) RemoveAdmin(c *fiber.Ctx) error {
	if err := h.admins.RemoveAdmin(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": true}})
}

func adminEntryResponse(entry *domain.AdminEntry) dto.AdminEntryResponse {
	return dto.AdminEntryResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		Name:      entry.Name,
		CreatedAt: entry.CreatedAt,
	}
}
