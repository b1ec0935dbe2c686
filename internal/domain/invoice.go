package domain

import "time"

// InvoiceStatus enumerates billing states.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// ValidInvoiceStatus reports whether s is a known status value.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is a billing record created manually by an admin. Ownership
// follows ClientID; ClientEmail is denormalized for display only.
type Invoice struct {
	ID            string
	ClientID      string
	ClientEmail   string
	InvoiceNumber string
	Amount        float64
	Status        InvoiceStatus
	DueDate       time.Time
	FilePath      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
