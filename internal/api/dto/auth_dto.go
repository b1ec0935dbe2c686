package dto

import "time"

// SignUpRequest payload for new client accounts.
type SignUpRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// SignInRequest payload.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PasswordResetRequest starts the reset flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm completes the reset flow with the token pair
// from the deep link.
type PasswordResetConfirm struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required,min=8"`
}

// SessionResponse carries the issued token pair.
type SessionResponse struct {
	AccessToken  string    `json:"access_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
}
