package domain

import "time"

// Client is the portal profile attached one-to-one to an identity.
type Client struct {
	ID           string
	UserID       string
	FullName     string
	CompanyName  string
	ContactEmail string
	PhoneNumber  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
