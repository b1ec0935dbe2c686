package domain

import "time"

// Identity is the authenticated principal behind a session: the auth
// record the portal reads, never the client profile itself.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
