package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/events"
)

type stubTicketRepo struct {
	tickets []*domain.Ticket
	nextID  int
}

func (r *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = "ticket-" + strconv.Itoa(r.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets = append(r.tickets, &copied)
	return nil
}

func (r *stubTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			ticket.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.ID == id {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) ListByClient(_ context.Context, clientID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.ClientID == clientID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) List(context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *stubTicketRepo) CountByStatus(_ context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	for _, ticket := range r.tickets {
		if ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func seedClient(t *testing.T, clients *stubClientRepo, userID, email string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		UserID:       userID,
		FullName:     "Jane Doe",
		ContactEmail: email,
	}
	if err := clients.Create(context.Background(), client); err != nil {
		t.Fatal(err)
	}
	return client
}

func TestCreateTicketDefaultsAndEvent(t *testing.T) {
	tickets := &stubTicketRepo{}
	clients := &stubClientRepo{}
	client := seedClient(t, clients, "user-1", "jane@client.test")

	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := NewTicketService(tickets, clients, dispatcher)
	ticket, err := svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Title:       "Broken form",
		Description: "The contact form errors out",
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status %q, want open", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("priority %q, want medium default", ticket.Priority)
	}
	if ticket.ClientID != client.ID {
		t.Fatalf("ticket owner %q, want %q", ticket.ClientID, client.ID)
	}

	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	payload, ok := published[0].Payload.(events.TicketCreatedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", published[0].Payload)
	}
	if payload.ClientEmail != "jane@client.test" {
		t.Fatalf("event client email %q", payload.ClientEmail)
	}
}

func TestCreateTicketRejectsUnknownPriority(t *testing.T) {
	clients := &stubClientRepo{}
	seedClient(t, clients, "user-1", "jane@client.test")
	svc := NewTicketService(&stubTicketRepo{}, clients, nil)

	_, err := svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Title:       "x",
		Description: "y",
		Priority:    "critical",
	})
	if err == nil {
		t.Fatal("unknown priority accepted")
	}
}

func TestListClientTicketsScopesToOwner(t *testing.T) {
	tickets := &stubTicketRepo{}
	clients := &stubClientRepo{}
	seedClient(t, clients, "user-1", "jane@client.test")
	seedClient(t, clients, "user-2", "bob@client.test")
	svc := NewTicketService(tickets, clients, nil)

	if _, err := svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{Title: "a", Description: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTicket(context.Background(), "user-2", TicketCreateInput{Title: "c", Description: "d"}); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListClientTickets(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].Title != "a" {
		t.Fatalf("listed %d tickets for user-1", len(mine))
	}

	all, err := svc.ListAllTickets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("listed %d tickets overall, want 2", len(all))
	}
}

func TestUpdateTicketStatus(t *testing.T) {
	tickets := &stubTicketRepo{}
	clients := &stubClientRepo{}
	seedClient(t, clients, "user-1", "jane@client.test")

	dispatcher := events.NewInMemoryDispatcher()
	var changes []events.TicketStatusChangedPayload
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, e events.Event) error {
		changes = append(changes, e.Payload.(events.TicketStatusChangedPayload))
		return nil
	})

	svc := NewTicketService(tickets, clients, dispatcher)
	ticket, err := svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{Title: "a", Description: "b"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.TicketStatusResolved {
		t.Fatalf("status %q, want resolved", updated.Status)
	}
	if len(changes) != 1 || changes[0].OldStatus != domain.TicketStatusOpen || changes[0].NewStatus != domain.TicketStatusResolved {
		t.Fatalf("unexpected status change events: %+v", changes)
	}

	// Same-status update is a no-op and publishes nothing.
	if _, err := svc.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 {
		t.Fatalf("no-op update published an event")
	}

	if _, err := svc.UpdateStatus(context.Background(), ticket.ID, "archived"); err == nil {
		t.Fatal("unknown status accepted")
	}
}
