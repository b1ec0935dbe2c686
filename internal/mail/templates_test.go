package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

var testBranding = Branding{
	CompanyName:   "Redux Reimagine Tech Solutions",
	FallbackPhone: "(213) 787-7893",
	PublicURL:     "https://example.test",
}

func TestContactAdminEmailEscapesInput(t *testing.T) {
	subject, body := ContactAdminEmail(testBranding, "<script>x</script>", "jane@client.test", "hi & bye")

	if !strings.Contains(subject, "<script>x</script>") {
		// Subjects are plain text; only the HTML body is escaped.
		t.Fatalf("subject %q", subject)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("body contains unescaped script tag")
	}
	if !strings.Contains(body, "hi &amp; bye") {
		t.Fatal("message not escaped into body")
	}
	if !strings.Contains(body, "mailto:jane@client.test") {
		t.Fatal("reply mailto link missing")
	}
}

func TestTicketNotificationPriorityColors(t *testing.T) {
	colors := map[domain.TicketPriority]string{
		domain.TicketPriorityLow:    "#10b981",
		domain.TicketPriorityMedium: "#f59e0b",
		domain.TicketPriorityHigh:   "#ef4444",
		domain.TicketPriorityUrgent: "#dc2626",
	}
	for priority, color := range colors {
		ticket := &domain.Ticket{ID: "t-1", Title: "Help", Description: "d", Priority: priority}
		_, body := TicketNotificationEmail(testBranding, ticket, "Jane", "jane@client.test")
		if !strings.Contains(body, color) {
			t.Fatalf("priority %s: body missing color %s", priority, color)
		}
	}
}

func TestInvoiceNotificationFormatsAmount(t *testing.T) {
	invoice := &domain.Invoice{
		InvoiceNumber: "INV-001",
		Amount:        1250.5,
		DueDate:       time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
	subject, body := InvoiceNotificationEmail(testBranding, invoice)

	if !strings.Contains(subject, "INV-001") {
		t.Fatalf("subject %q", subject)
	}
	if !strings.Contains(body, "$1250.50") {
		t.Fatal("amount not formatted with two decimals")
	}
	if !strings.Contains(body, "March 15, 2026") {
		t.Fatal("due date not formatted")
	}
}

func TestEveryTemplateCarriesBranding(t *testing.T) {
	ticket := &domain.Ticket{ID: "t", Title: "x", Description: "y", Priority: domain.TicketPriorityLow}
	invoice := &domain.Invoice{InvoiceNumber: "INV-1", DueDate: time.Now()}

	bodies := []string{}
	_, b1 := ContactAdminEmail(testBranding, "n", "e@x.com", "m")
	_, b2 := ContactConfirmationEmail(testBranding, "n", "m")
	_, b3 := TicketNotificationEmail(testBranding, ticket, "n", "e@x.com")
	_, b4 := InvoiceNotificationEmail(testBranding, invoice)
	_, b5 := PasswordResetEmail(testBranding, "https://example.test/reset-password?access_token=a&refresh_token=b")
	bodies = append(bodies, b1, b2, b3, b4, b5)

	for i, body := range bodies {
		if !strings.Contains(body, testBranding.CompanyName) {
			t.Fatalf("template %d missing company name", i)
		}
		if !strings.Contains(body, testBranding.FallbackPhone) {
			t.Fatalf("template %d missing fallback phone", i)
		}
	}
}
