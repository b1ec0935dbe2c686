package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/config"
	"github.com/reduxreimagine/portal-service/internal/mail"
	"github.com/reduxreimagine/portal-service/internal/observability"
	apperrors "github.com/reduxreimagine/portal-service/pkg/util"
)

// ErrRateLimited signals too many submissions from one source.
var ErrRateLimited = errors.New("too many submissions, please try again later")

// ContactInput is the public contact form payload.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// SubmissionLimiter gates submissions per source. *persistence.RateLimiter
// satisfies it.
type SubmissionLimiter interface {
	Allow(ctx context.Context, scope, subject string, limit int) (bool, error)
}

// ContactService relays contact form submissions through the email
// provider. Validation happens before any network call is issued.
type ContactService struct {
	mailer    mail.Sender
	limiter   SubmissionLimiter
	validate  *validator.Validate
	branding  mail.Branding
	recipient string
	limit     int
	logger    *zap.Logger
}

// NewContactService builds the service.
func NewContactService(cfg config.Config, mailer mail.Sender, limiter SubmissionLimiter, logger *zap.Logger) *ContactService {
	return &ContactService{
		mailer:   mailer,
		limiter:  limiter,
		validate: validator.New(),
		branding: mail.Branding{
			CompanyName:   cfg.Contact.CompanyName,
			FallbackPhone: cfg.Contact.FallbackPhone,
			PublicURL:     cfg.App.PublicURL,
		},
		recipient: cfg.Email.AdminRecipient,
		limit:     cfg.Contact.RateLimitPerHour,
		logger:    logger,
	}
}

// Submit validates, rate limits, then sends the admin notification with
// reply-to set to the submitter. The follow-up confirmation to the
// submitter is best-effort: the admin email alone decides success, so a
// failed confirmation never reports the whole submission as failed.
func (s *ContactService) Submit(ctx context.Context, remoteAddr string, input ContactInput) error {
	if err := s.validate.Struct(input); err != nil {
		observability.ContactSubmissionsTotal.WithLabelValues("invalid").Inc()
		return apperrors.NewValidationError("name, email and message are required and email must be valid", nil)
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, "contact", remoteAddr, s.limit)
		if err != nil {
			// A broken limiter should not take the contact form down.
			s.logger.Warn("contact rate limit check failed", zap.Error(err))
		} else if !allowed {
			observability.ContactSubmissionsTotal.WithLabelValues("rate_limited").Inc()
			return ErrRateLimited
		}
	}

	subject, body := mail.ContactAdminEmail(s.branding, input.Name, input.Email, input.Message)
	err := s.mailer.Send(ctx, mail.Message{
		To:      []string{s.recipient},
		ReplyTo: input.Email,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		observability.EmailsSentTotal.WithLabelValues("contact_admin", "error").Inc()
		observability.ContactSubmissionsTotal.WithLabelValues("relay_failed").Inc()
		return err
	}
	observability.EmailsSentTotal.WithLabelValues("contact_admin", "ok").Inc()

	confirmSubject, confirmBody := mail.ContactConfirmationEmail(s.branding, input.Name, input.Message)
	if err := s.mailer.Send(ctx, mail.Message{
		To:      []string{input.Email},
		Subject: confirmSubject,
		HTML:    confirmBody,
	}); err != nil {
		observability.EmailsSentTotal.WithLabelValues("contact_confirmation", "error").Inc()
		s.logger.Warn("contact confirmation email failed", zap.Error(err))
	} else {
		observability.EmailsSentTotal.WithLabelValues("contact_confirmation", "ok").Inc()
	}

	observability.ContactSubmissionsTotal.WithLabelValues("accepted").Inc()
	return nil
}

// FallbackPhone is the number surfaced when the relay fails.
func (s *ContactService) FallbackPhone() string {
	return s.branding.FallbackPhone
}
