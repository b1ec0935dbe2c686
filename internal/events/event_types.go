package events

import (
	"time"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventInvoiceIssued       EventType = "invoice_issued"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket      domain.Ticket `json:"ticket"`
	ClientName  string        `json:"client_name"`
	ClientEmail string        `json:"client_email"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// InvoiceIssuedPayload payload.
type InvoiceIssuedPayload struct {
	Invoice     domain.Invoice `json:"invoice"`
	ClientEmail string         `json:"client_email"`
}
