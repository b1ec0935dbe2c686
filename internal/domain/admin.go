package domain

import "time"

// AdminEntry is one row of the admin allowlist. Presence of an email
// here is the sole authorization signal for admin capability.
type AdminEntry struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
