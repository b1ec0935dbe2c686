package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/events"
	"github.com/reduxreimagine/portal-service/internal/repository"
)

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketService coordinates support ticket workflows. Content is
// client-authored at creation; only status changes afterwards, and
// only through the admin path.
type TicketService struct {
	tickets    repository.TicketRepository
	clients    repository.ClientRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, clients repository.ClientRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, clients: clients, dispatcher: dispatcher}
}

// CreateTicket files a ticket for the signed-in identity's client
// profile and publishes the created event for notification handlers.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, errors.New("unknown priority")
	}

	ticket := &domain.Ticket{
		ClientID:    client.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketCreated,
			Timestamp: time.Now(),
			Payload: events.TicketCreatedPayload{
				Ticket:      *ticket,
				ClientName:  client.FullName,
				ClientEmail: client.ContactEmail,
			},
		})
	}
	return ticket, nil
}

// ListClientTickets returns the signed-in client's own tickets.
func (s *TicketService) ListClientTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.tickets.ListByClient(ctx, client.ID)
}

// ListAllTickets returns every ticket, for the admin view.
func (s *TicketService) ListAllTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// UpdateStatus moves a ticket to a new status, admin only.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(status) {
		return nil, errors.New("unknown status")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}
	ticket.Status = status

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketStatusChanged,
			Timestamp: time.Now(),
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
	}
	return ticket, nil
}
