package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/config"
	"github.com/reduxreimagine/portal-service/internal/mail"
)

type stubMailer struct {
	sent []mail.Message
	err  error
}

func (s *stubMailer) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (s *stubLimiter) Allow(context.Context, string, string, int) (bool, error) {
	return s.allowed, s.err
}

func contactConfig() config.Config {
	return config.Config{
		App: config.AppConfig{PublicURL: "https://example.test"},
		Email: config.EmailConfig{
			AdminRecipient: "owner@example.test",
		},
		Contact: config.ContactConfig{
			FallbackPhone:    "(213) 787-7893",
			RateLimitPerHour: 5,
			CompanyName:      "Redux Reimagine Tech Solutions",
		},
	}
}

func TestSubmitRelaysAdminAndConfirmation(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(contactConfig(), mailer, &stubLimiter{allowed: true}, zap.NewNop())

	err := svc.Submit(context.Background(), "1.2.3.4", ContactInput{
		Name:    "Jane Doe",
		Email:   "jane@client.test",
		Message: "Need a new site",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(mailer.sent))
	}
	admin := mailer.sent[0]
	if admin.To[0] != "owner@example.test" {
		t.Fatalf("admin email to %q", admin.To[0])
	}
	if admin.ReplyTo != "jane@client.test" {
		t.Fatalf("admin reply-to %q, want submitter address", admin.ReplyTo)
	}
	confirm := mailer.sent[1]
	if confirm.To[0] != "jane@client.test" {
		t.Fatalf("confirmation to %q, want submitter address", confirm.To[0])
	}
}

func TestSubmitRejectsInvalidInputWithoutSending(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(contactConfig(), mailer, &stubLimiter{allowed: true}, zap.NewNop())

	inputs := []ContactInput{
		{Name: "", Email: "jane@client.test", Message: "hi"},
		{Name: "Jane", Email: "not-an-email", Message: "hi"},
		{Name: "Jane", Email: "jane@client.test", Message: ""},
	}
	for _, input := range inputs {
		if err := svc.Submit(context.Background(), "1.2.3.4", input); err == nil {
			t.Fatalf("submit accepted invalid input %+v", input)
		}
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("invalid input still sent %d emails", len(mailer.sent))
	}
}

func TestSubmitHonorsRateLimit(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(contactConfig(), mailer, &stubLimiter{allowed: false}, zap.NewNop())

	err := svc.Submit(context.Background(), "1.2.3.4", ContactInput{
		Name:    "Jane",
		Email:   "jane@client.test",
		Message: "hi",
	})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("got %v, want ErrRateLimited", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("rate-limited submission still sent %d emails", len(mailer.sent))
	}
}

func TestSubmitBrokenLimiterDoesNotBlock(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewContactService(contactConfig(), mailer, &stubLimiter{err: errors.New("redis down")}, zap.NewNop())

	err := svc.Submit(context.Background(), "1.2.3.4", ContactInput{
		Name:    "Jane",
		Email:   "jane@client.test",
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(mailer.sent))
	}
}

func TestSubmitAdminRelayFailurePropagates(t *testing.T) {
	mailer := &stubMailer{err: errors.New("provider rejected")}
	svc := NewContactService(contactConfig(), mailer, &stubLimiter{allowed: true}, zap.NewNop())

	err := svc.Submit(context.Background(), "1.2.3.4", ContactInput{
		Name:    "Jane",
		Email:   "jane@client.test",
		Message: "hi",
	})
	if err == nil {
		t.Fatal("submit succeeded despite relay failure")
	}
}

func TestSubmitConfirmationFailureStillSucceeds(t *testing.T) {
	// First send (admin) succeeds, second (confirmation) fails.
	mailer := &failSecondMailer{}
	svc := NewContactService(contactConfig(), mailer, &stubLimiter{allowed: true}, zap.NewNop())

	err := svc.Submit(context.Background(), "1.2.3.4", ContactInput{
		Name:    "Jane",
		Email:   "jane@client.test",
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("submit failed on confirmation error: %v", err)
	}
}

type failSecondMailer struct {
	calls int
}

func (m *failSecondMailer) Send(context.Context, mail.Message) error {
	m.calls++
	if m.calls >= 2 {
		return errors.New("provider rejected")
	}
	return nil
}
