package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/events"
	"github.com/reduxreimagine/portal-service/internal/repository"
	"github.com/reduxreimagine/portal-service/internal/storage"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// InvoiceCreateInput describes an admin-created invoice.
type InvoiceCreateInput struct {
	ClientID      string
	InvoiceNumber string
	Amount        float64
	Status        domain.InvoiceStatus
	DueDate       time.Time
}

// InvoiceFiles abstracts the client-uploads bucket. *storage.Bucket
// satisfies it.
type InvoiceFiles interface {
	Save(key string, r io.Reader) (int64, error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

// InvoiceService owns invoice records and their uploaded files.
// Invoices reference clients by id; the denormalized client email is
// display-only so an email change never orphans billing history.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	clients    repository.ClientRepository
	files      InvoiceFiles
	dispatcher events.Dispatcher
}

// NewInvoiceService constructs the service.
func NewInvoiceService(invoices repository.InvoiceRepository, clients repository.ClientRepository, files InvoiceFiles, dispatcher events.Dispatcher) *InvoiceService {
	return &InvoiceService{invoices: invoices, clients: clients, files: files, dispatcher: dispatcher}
}

// CreateInvoice stores the uploaded file under
// invoices/<timestamp>-<invoice_number>.<ext> and inserts the record.
// file may be nil for an invoice without an attachment.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input InvoiceCreateInput, file io.Reader, filename string) (*domain.Invoice, error) {
	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.InvoiceStatusPending
	}
	if !domain.ValidInvoiceStatus(status) {
		return nil, errors.New("unknown status")
	}

	invoice := &domain.Invoice{
		ClientID:      client.ID,
		ClientEmail:   client.ContactEmail,
		InvoiceNumber: input.InvoiceNumber,
		Amount:        input.Amount,
		Status:        status,
		DueDate:       input.DueDate,
	}

	if file != nil {
		key := storage.InvoiceKey(input.InvoiceNumber, filename)
		if _, err := s.files.Save(key, file); err != nil {
			return nil, err
		}
		invoice.FilePath = &key
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		if invoice.FilePath != nil {
			_ = s.files.Remove(*invoice.FilePath)
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventInvoiceIssued,
			Timestamp: time.Now(),
			Payload: events.InvoiceIssuedPayload{
				Invoice:     *invoice,
				ClientEmail: client.ContactEmail,
			},
		})
	}
	return invoice, nil
}

// UpdateStatus moves an invoice to a new status, admin only.
func (s *InvoiceService) UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !domain.ValidInvoiceStatus(status) {
		return nil, errors.New("unknown status")
	}
	if err := s.invoices.UpdateStatus(ctx, invoiceID, status); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, invoiceID)
}

// ListClientInvoices returns the signed-in client's own invoices.
func (s *InvoiceService) ListClientInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.invoices.ListByClient(ctx, client.ID)
}

// ListAllInvoices returns every invoice, for the admin view.
func (s *InvoiceService) ListAllInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoices.List(ctx)
}

// OpenClientFile streams an invoice file after checking the invoice
// belongs to the signed-in client.
func (s *InvoiceService) OpenClientFile(ctx context.Context, userID, invoiceID string) (io.ReadCloser, *domain.Invoice, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if invoice.ClientID != client.ID {
		return nil, nil, apperrors.NewNotFound("invoice", nil)
	}
	if invoice.FilePath == nil {
		return nil, nil, apperrors.NewNotFound("invoice file", nil)
	}

	rc, err := s.files.Open(*invoice.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return rc, invoice, nil
}
