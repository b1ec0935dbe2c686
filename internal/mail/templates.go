package mail

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

// Branding carries the company strings stamped into every email.
type Branding struct {
	CompanyName   string
	FallbackPhone string
	PublicURL     string
}

var priorityColors = map[domain.TicketPriority]string{
	domain.TicketPriorityLow:    "#10b981",
	domain.TicketPriorityMedium: "#f59e0b",
	domain.TicketPriorityHigh:   "#ef4444",
	domain.TicketPriorityUrgent: "#dc2626",
}

// ContactAdminEmail renders the notification sent to the admin inbox
// for a contact form submission.
func ContactAdminEmail(b Branding, name, email, message string) (subject, body string) {
	subject = fmt.Sprintf("New Contact Form Submission from %s", name)
	body = wrap(b, "New Contact Form Submission", fmt.Sprintf(`
      <div style="background: white; padding: 25px; border-radius: 8px; margin-bottom: 20px;">
        <h2 style="color: #333; margin-top: 0;">Contact Details</h2>
        <p><strong>Name:</strong> %s</p>
        <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
        <p><strong>Submitted:</strong> %s</p>
      </div>
      <div style="background: white; padding: 25px; border-radius: 8px;">
        <h2 style="color: #333; margin-top: 0;">Message</h2>
        <div style="white-space: pre-wrap; line-height: 1.6;">%s</div>
      </div>`,
		esc(name), esc(email), esc(email), time.Now().Format(time.RFC1123), esc(message)))
	return subject, body
}

// ContactConfirmationEmail renders the confirmation sent back to the
// person who submitted the contact form.
func ContactConfirmationEmail(b Branding, name, message string) (subject, body string) {
	subject = fmt.Sprintf("Thank you for contacting %s", b.CompanyName)
	body = wrap(b, fmt.Sprintf("Thank You, %s!", esc(name)), fmt.Sprintf(`
      <div style="background: white; padding: 25px; border-radius: 8px; margin-bottom: 20px;">
        <h2 style="color: #333; margin-top: 0;">We Received Your Message</h2>
        <p style="line-height: 1.6; color: #555;">
          Thank you for reaching out to %s. Our team will review your inquiry
          and get back to you within <strong>48 hours</strong>.
        </p>
      </div>
      <div style="background: white; padding: 25px; border-radius: 8px;">
        <h2 style="color: #333; margin-top: 0;">Your Message</h2>
        <div style="white-space: pre-wrap; line-height: 1.6; color: #555;">%s</div>
      </div>`,
		esc(b.CompanyName), esc(message)))
	return subject, body
}

// TicketNotificationEmail renders the admin notification for a freshly
// created support ticket.
func TicketNotificationEmail(b Branding, ticket *domain.Ticket, clientName, clientEmail string) (subject, body string) {
	subject = fmt.Sprintf("New Support Ticket: %s", ticket.Title)

	color, ok := priorityColors[ticket.Priority]
	if !ok {
		color = "#6b7280"
	}
	priorityText := strings.ToUpper(string(ticket.Priority)[:1]) + string(ticket.Priority)[1:]

	body = wrap(b, "New Support Ticket", fmt.Sprintf(`
      <div style="background: white; padding: 25px; border-radius: 8px; margin-bottom: 20px;">
        <h2 style="color: #333; margin-top: 0;">Ticket Details</h2>
        <p><strong>Ticket ID:</strong> %s</p>
        <p><strong>Title:</strong> %s</p>
        <p><strong>Priority:</strong> <span style="color: %s; font-weight: bold;">%s</span></p>
        <p><strong>Client:</strong> %s</p>
        <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
      </div>
      <div style="background: white; padding: 25px; border-radius: 8px;">
        <h2 style="color: #333; margin-top: 0;">Description</h2>
        <div style="white-space: pre-wrap; line-height: 1.6; color: #555;">%s</div>
      </div>`,
		esc(ticket.ID), esc(ticket.Title), color, esc(priorityText),
		esc(clientName), esc(clientEmail), esc(clientEmail), esc(ticket.Description)))
	return subject, body
}

// InvoiceNotificationEmail tells a client that a new invoice is ready
// in the portal.
func InvoiceNotificationEmail(b Branding, invoice *domain.Invoice) (subject, body string) {
	subject = fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNumber, b.CompanyName)
	body = wrap(b, "New Invoice", fmt.Sprintf(`
      <div style="background: white; padding: 25px; border-radius: 8px;">
        <h2 style="color: #333; margin-top: 0;">Invoice Details</h2>
        <p><strong>Invoice Number:</strong> %s</p>
        <p><strong>Amount:</strong> $%.2f</p>
        <p><strong>Due Date:</strong> %s</p>
        <p style="line-height: 1.6; color: #555;">
          Sign in to the client portal to view and download your invoice.
        </p>
      </div>`,
		esc(invoice.InvoiceNumber), invoice.Amount, invoice.DueDate.Format("January 2, 2006")))
	return subject, body
}

// PasswordResetEmail renders the reset deep link message. The link
// carries the access and refresh token pair as query parameters.
func PasswordResetEmail(b Branding, resetLink string) (subject, body string) {
	subject = fmt.Sprintf("Reset your %s password", b.CompanyName)
	body = wrap(b, "Password Reset", fmt.Sprintf(`
      <div style="background: white; padding: 25px; border-radius: 8px;">
        <p style="line-height: 1.6; color: #555;">
          We received a request to reset your password. This link is
          valid for a short time and can be used once.
        </p>
        <p style="text-align: center; margin: 25px 0;">
          <a href="%s" style="background: #667eea; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Reset Password</a>
        </p>
        <p style="line-height: 1.6; color: #555;">
          If you did not request a reset, you can ignore this email.
        </p>
      </div>`,
		resetLink))
	return subject, body
}

func wrap(b Branding, heading, inner string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
      <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center;">
        <h1 style="margin: 0; font-size: 28px;">%s</h1>
        <p style="margin: 10px 0 0 0; opacity: 0.9;">%s</p>
      </div>
      <div style="background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; border: 1px solid #e9ecef;">
        %s
      </div>
      <div style="text-align: center; margin-top: 20px; color: #666; font-size: 14px;">
        <p>%s | %s</p>
      </div>
    </div>`,
		esc(heading), esc(b.CompanyName), inner, esc(b.CompanyName), esc(b.FallbackPhone))
}

func esc(s string) string {
	return html.EscapeString(s)
}
