package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/auth"
	"github.com/reduxreimagine/portal-service/internal/config"
	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/mail"
	"github.com/reduxreimagine/portal-service/internal/observability"
	"github.com/reduxreimagine/portal-service/internal/persistence"
	"github.com/reduxreimagine/portal-service/internal/repository"
)

// ErrInvalidCredentials covers both unknown email and wrong password so
// responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenVault abstracts the refresh/reset token store so tests can run
// without Redis. *persistence.TokenStore satisfies it.
type TokenVault interface {
	Save(ctx context.Context, purpose persistence.TokenPurpose, token, identityID string, ttl time.Duration) error
	Consume(ctx context.Context, purpose persistence.TokenPurpose, token string) (string, error)
	Revoke(ctx context.Context, purpose persistence.TokenPurpose, token string) error
}

// Session is the token pair issued on sign-in, sign-up and refresh.
type Session struct {
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

// AuthService coordinates registration, login and password recovery.
type AuthService struct {
	identities repository.IdentityRepository
	clients    repository.ClientRepository
	tokenMgr   *auth.TokenManager
	tokenStore TokenVault
	mailer     mail.Sender
	branding   mail.Branding
	logger     *zap.Logger
	bcryptCost int
	refreshTTL time.Duration
	resetTTL   time.Duration
	publicURL  string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	IdentityRepo repository.IdentityRepository
	ClientRepo   repository.ClientRepository
	TokenStore   TokenVault
	Mailer       mail.Sender
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.IdentityRepo,
		clients:    deps.ClientRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		tokenStore: deps.TokenStore,
		mailer:     deps.Mailer,
		branding: mail.Branding{
			CompanyName:   cfg.Contact.CompanyName,
			FallbackPhone: cfg.Contact.FallbackPhone,
			PublicURL:     cfg.App.PublicURL,
		},
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		refreshTTL: cfg.Auth.RefreshTokenTTL(),
		resetTTL:   cfg.Auth.PasswordResetTTL(),
		publicURL:  cfg.App.PublicURL,
	}
}

// normalizeEmail canonicalizes an address before storage or lookup.
// The admin allowlist stores lowercase addresses, so every identity
// email must be stored and compared in the same form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the identity and its one-to-one client profile, then
// opens a session.
func (s *AuthService) SignUp(ctx context.Context, fullName, companyName, email, password string) (*domain.Identity, *domain.Client, *Session, error) {
	email = normalizeEmail(email)
	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		return nil, nil, nil, errors.New("email already registered")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, nil, nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, nil, err
	}

	identity := &domain.Identity{Email: email, PasswordHash: hash}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, nil, nil, err
	}

	client := &domain.Client{
		UserID:       identity.ID,
		FullName:     fullName,
		CompanyName:  companyName,
		ContactEmail: email,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		// Undo the identity insert so the email is not left claimed by
		// an account with no client profile.
		if delErr := s.identities.Delete(ctx, identity.ID); delErr != nil {
			s.logger.Warn("orphaned identity cleanup failed",
				zap.String("identity_id", identity.ID),
				zap.Error(delErr))
		}
		return nil, nil, nil, err
	}

	session, err := s.openSession(ctx, identity)
	if err != nil {
		return nil, nil, nil, err
	}
	return identity, client, session, nil
}

// SignIn authenticates an identity and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Identity, *Session, error) {
	identity, err := s.identities.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, session, nil
}

// SignOut revokes the refresh token; the access token simply expires.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	return s.tokenStore.Revoke(ctx, persistence.TokenPurposeRefresh, refreshToken)
}

// Refresh rotates the token pair. The presented refresh token is
// consumed whether or not rotation succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	identityID, err := s.tokenStore.Consume(ctx, persistence.TokenPurposeRefresh, refreshToken)
	if err != nil {
		if errors.Is(err, persistence.ErrTokenNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, identity)
}

// RequestPasswordReset emails a reset deep link carrying a short-lived
// access+refresh token pair as URL parameters. An unknown email is not
// an error so the endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	identity, err := s.identities.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	accessToken, _, err := s.tokenMgr.GenerateTokenWithTTL(identity.ID, identity.Email, s.resetTTL)
	if err != nil {
		return err
	}
	resetToken := uuid.NewString()
	if err := s.tokenStore.Save(ctx, persistence.TokenPurposePasswordReset, resetToken, identity.ID, s.resetTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?access_token=%s&refresh_token=%s",
		s.publicURL, url.QueryEscape(accessToken), url.QueryEscape(resetToken))

	subject, body := mail.PasswordResetEmail(s.branding, link)
	if err := s.mailer.Send(ctx, mail.Message{To: []string{identity.Email}, Subject: subject, HTML: body}); err != nil {
		observability.EmailsSentTotal.WithLabelValues("password_reset", "error").Inc()
		return err
	}
	observability.EmailsSentTotal.WithLabelValues("password_reset", "ok").Inc()
	return nil
}

// ConfirmPasswordReset validates the token pair from the deep link and
// updates the stored hash. The refresh half is single-use.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, accessToken, refreshToken, newPassword string) error {
	claims, err := s.tokenMgr.ParseToken(accessToken)
	if err != nil {
		return errors.New("reset link expired or invalid")
	}

	identityID, err := s.tokenStore.Consume(ctx, persistence.TokenPurposePasswordReset, refreshToken)
	if err != nil {
		if errors.Is(err, persistence.ErrTokenNotFound) {
			return errors.New("reset link expired or invalid")
		}
		return err
	}
	if identityID != claims.Subject {
		return errors.New("reset link expired or invalid")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.identities.UpdatePassword(ctx, identityID, hash)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) openSession(ctx context.Context, identity *domain.Identity) (*Session, error) {
	accessToken, expiresAt, err := s.tokenMgr.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	if err := s.tokenStore.Save(ctx, persistence.TokenPurposeRefresh, refreshToken, identity.ID, s.refreshTTL); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:     accessToken,
		AccessExpiresAt: expiresAt,
		RefreshToken:    refreshToken,
	}, nil
}
