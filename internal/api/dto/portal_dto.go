package dto

import (
	"time"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

// ClientResponse is a client profile.
type ClientResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	CompanyName  string    `json:"company_name"`
	ContactEmail string    `json:"contact_email"`
	PhoneNumber  *string   `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdatePhoneRequest is the one client-editable profile field.
type UpdatePhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// ProjectResponse summarizes a project.
type ProjectResponse struct {
	ID          string               `json:"id"`
	ClientID    string               `json:"client_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      domain.ProjectStatus `json:"status"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CreateProjectRequest is the admin project form.
type CreateProjectRequest struct {
	ClientID    string     `json:"client_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProjectRequest carries admin project edits.
type UpdateProjectRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Status      string     `json:"status" validate:"required"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
}

// CreateTicketRequest is the support form.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority"`
}

// TicketResponse summarizes a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	ClientID    string                `json:"client_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// UpdateStatusRequest moves a ticket or invoice to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// InvoiceResponse summarizes an invoice.
type InvoiceResponse struct {
	ID            string               `json:"id"`
	ClientID      string               `json:"client_id"`
	ClientEmail   string               `json:"client_email"`
	InvoiceNumber string               `json:"invoice_number"`
	Amount        float64              `json:"amount"`
	Status        domain.InvoiceStatus `json:"status"`
	DueDate       time.Time            `json:"due_date"`
	HasFile       bool                 `json:"has_file"`
	CreatedAt     time.Time            `json:"created_at"`
}

// AdminEntryResponse is one allowlist row.
type AdminEntryResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AddAdminRequest grants admin capability to an email.
type AddAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse mirrors the relay function's response shape.
type ContactResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
