package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/config"
	"github.com/reduxreimagine/portal-service/internal/events"
	"github.com/reduxreimagine/portal-service/internal/mail"
	"github.com/reduxreimagine/portal-service/internal/observability"
)

// NotificationService relays domain events as email through the
// transactional provider. Relay failures are logged, never retried.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Sender
	branding   mail.Branding
	recipient  string
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Sender, cfg config.Config, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		branding: mail.Branding{
			CompanyName:   cfg.Contact.CompanyName,
			FallbackPhone: cfg.Contact.FallbackPhone,
			PublicURL:     cfg.App.PublicURL,
		},
		recipient: cfg.Email.AdminRecipient,
		logger:    logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventInvoiceIssued, n.handleInvoiceIssued)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("ticket created",
		zap.String("ticket_id", payload.Ticket.ID),
		zap.String("priority", string(payload.Ticket.Priority)))

	if n.recipient == "" {
		return nil
	}
	subject, body := mail.TicketNotificationEmail(n.branding, &payload.Ticket, payload.ClientName, payload.ClientEmail)
	err := n.mailer.Send(ctx, mail.Message{
		To:      []string{n.recipient},
		ReplyTo: payload.ClientEmail,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		observability.EmailsSentTotal.WithLabelValues("ticket_notification", "error").Inc()
		n.logger.Warn("ticket notification email failed", zap.Error(err))
		return err
	}
	observability.EmailsSentTotal.WithLabelValues("ticket_notification", "ok").Inc()
	return nil
}

func (n *NotificationService) handleInvoiceIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InvoiceIssuedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("invoice issued",
		zap.String("invoice_id", payload.Invoice.ID),
		zap.String("invoice_number", payload.Invoice.InvoiceNumber))

	if payload.ClientEmail == "" {
		return nil
	}
	subject, body := mail.InvoiceNotificationEmail(n.branding, &payload.Invoice)
	err := n.mailer.Send(ctx, mail.Message{
		To:      []string{payload.ClientEmail},
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		observability.EmailsSentTotal.WithLabelValues("invoice_notification", "error").Inc()
		n.logger.Warn("invoice notification email failed", zap.Error(err))
		return err
	}
	observability.EmailsSentTotal.WithLabelValues("invoice_notification", "ok").Inc()
	return nil
}
