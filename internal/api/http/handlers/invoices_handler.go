package handlers

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/dto"
	"github.com/reduxreimagine/portal-service/internal/auth"
	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/service"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

const dueDateLayout = "2006-01-02"

// InvoicesHandler serves invoice endpoints for clients and admins.
type InvoicesHandler struct {
	service *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoiceService *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{service: invoiceService}
}

// ListMine GET /api/invoices.
func (h *InvoicesHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in required")
	}
	invoices, err := h.service.ListClientInvoices(c.Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponses(invoices)})
}

// DownloadFile GET /api/invoices/:id/file.
func (h *InvoicesHandler) DownloadFile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in required")
	}
	rc, invoice, err := h.service.OpenClientFile(c.Context(), identity.ID, c.Params("id"))
	if err != nil {
		return err
	}

	ext := filepath.Ext(derefString(invoice.FilePath))
	c.Set(fiber.HeaderContentType, contentTypeFor(ext))
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+invoice.InvoiceNumber+ext+`"`)
	return c.SendStream(rc)
}

// contentTypeFor maps a stored file extension to its MIME type.
// Uploads are not restricted to PDF, so the type comes from the
// extension rather than a fixed value.
func contentTypeFor(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// ListAll GET /api/admin/invoices.
func (h *InvoicesHandler) ListAll(c *fiber.Ctx) error {
	invoices, err := h.service.ListAllInvoices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponses(invoices)})
}

// Create POST /api/admin/invoices.
//
// The body is multipart form data so the invoice document can ride
// along with the record fields. The file part is optional.
func (h *InvoicesHandler) Create(c *fiber.Ctx) error {
	input, err := parseInvoiceForm(c)
	if err != nil {
		return err
	}

	var (
		fileHeader *multipart.FileHeader
		filename   string
	)
	if fh, err := c.FormFile("file"); err == nil {
		fileHeader = fh
		filename = fh.Filename
	}

	if fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable file upload", nil)
		}
		defer file.Close()

		invoice, err := h.service.CreateInvoice(c.Context(), input, file, filename)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": invoiceResponse(invoice)})
	}

	invoice, err := h.service.CreateInvoice(c.Context(), input, nil, "")
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": invoiceResponse(invoice)})
}

// UpdateStatus PATCH /api/admin/invoices/:id/status.
func (h *InvoicesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	invoice, err := h.service.UpdateStatus(c.Context(), c.Params("id"), domain.InvoiceStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponse(invoice)})
}

func parseInvoiceForm(c *fiber.Ctx) (service.InvoiceCreateInput, error) {
	input := service.InvoiceCreateInput{
		ClientID:      c.FormValue("client_id"),
		InvoiceNumber: c.FormValue("invoice_number"),
		Status:        domain.InvoiceStatus(c.FormValue("status")),
	}
	if input.ClientID == "" || input.InvoiceNumber == "" {
		return input, apperrors.NewValidationError("client_id and invoice_number required", nil)
	}

	amount, err := strconv.ParseFloat(c.FormValue("amount"), 64)
	if err != nil || amount < 0 {
		return input, apperrors.NewValidationError("amount must be a non-negative number", nil)
	}
	input.Amount = amount

	dueDate, err := time.Parse(dueDateLayout, c.FormValue("due_date"))
	if err != nil {
		return input, apperrors.NewValidationError("due_date must be YYYY-MM-DD", nil)
	}
	input.DueDate = dueDate

	return input, nil
}

func invoiceResponse(inv *domain.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		ClientEmail:   inv.ClientEmail,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		Status:        inv.Status,
		DueDate:       inv.DueDate,
		HasFile:       inv.FilePath != nil,
		CreatedAt:     inv.CreatedAt,
	}
}

func invoiceResponses(invoices []domain.Invoice) []dto.InvoiceResponse {
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, invoiceResponse(&invoices[i]))
	}
	return items
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
