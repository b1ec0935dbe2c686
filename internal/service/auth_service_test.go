package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/auth"
	"github.com/reduxreimagine/portal-service/internal/config"
	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/persistence"
)

type stubIdentityRepo struct {
	byID    map[string]*domain.Identity
	byEmail map[string]*domain.Identity
	nextID  int
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		byID:    map[string]*domain.Identity{},
		byEmail: map[string]*domain.Identity{},
	}
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.nextID++
	identity.ID = "identity-" + strconv.Itoa(r.nextID)
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	copied := *identity
	r.byID[identity.ID] = &copied
	r.byEmail[identity.Email] = &copied
	return nil
}

func (r *stubIdentityRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	identity, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.PasswordHash = passwordHash
	return nil
}

func (r *stubIdentityRepo) Delete(_ context.Context, id string) error {
	identity, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	delete(r.byEmail, identity.Email)
	return nil
}

func (r *stubIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *identity
	return &copied, nil
}

func (r *stubIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	identity, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *identity
	return &copied, nil
}

type stubClientRepo struct {
	clients   []*domain.Client
	nextID    int
	createErr error
}

func (r *stubClientRepo) Create(_ context.Context, client *domain.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	client.ID = "client-" + strconv.Itoa(r.nextID)
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	copied := *client
	r.clients = append(r.clients, &copied)
	return nil
}

func (r *stubClientRepo) UpdatePhone(_ context.Context, id string, phoneNumber *string) error {
	for _, client := range r.clients {
		if client.ID == id {
			client.PhoneNumber = phoneNumber
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.ID == id {
			copied := *client
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubClientRepo) GetByUserID(_ context.Context, userID string) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.UserID == userID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubClientRepo) List(context.Context) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, *client)
	}
	return out, nil
}

func (r *stubClientRepo) Count(context.Context) (int64, error) {
	return int64(len(r.clients)), nil
}

type stubTokenVault struct {
	tokens map[string]string
}

func newStubTokenVault() *stubTokenVault {
	return &stubTokenVault{tokens: map[string]string{}}
}

func (v *stubTokenVault) key(purpose persistence.TokenPurpose, token string) string {
	return string(purpose) + ":" + token
}

func (v *stubTokenVault) Save(_ context.Context, purpose persistence.TokenPurpose, token, identityID string, _ time.Duration) error {
	v.tokens[v.key(purpose, token)] = identityID
	return nil
}

func (v *stubTokenVault) Consume(_ context.Context, purpose persistence.TokenPurpose, token string) (string, error) {
	k := v.key(purpose, token)
	identityID, ok := v.tokens[k]
	if !ok {
		return "", persistence.ErrTokenNotFound
	}
	delete(v.tokens, k)
	return identityID, nil
}

func (v *stubTokenVault) Revoke(_ context.Context, purpose persistence.TokenPurpose, token string) error {
	delete(v.tokens, v.key(purpose, token))
	return nil
}

func authConfig() config.Config {
	return config.Config{
		App: config.AppConfig{PublicURL: "https://example.test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			RefreshTokenTTLHours:    1,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
		Contact: config.ContactConfig{
			FallbackPhone: "(213) 787-7893",
			CompanyName:   "Redux Reimagine Tech Solutions",
		},
	}
}

func newAuthService(mailer *stubMailer) (*AuthService, *stubIdentityRepo, *stubClientRepo, *stubTokenVault) {
	identities := newStubIdentityRepo()
	clients := &stubClientRepo{}
	vault := newStubTokenVault()
	svc := NewAuthService(authConfig(), AuthDependencies{
		IdentityRepo: identities,
		ClientRepo:   clients,
		TokenStore:   vault,
		Mailer:       mailer,
		Logger:       zap.NewNop(),
	})
	return svc, identities, clients, vault
}

func TestSignUpCreatesIdentityProfileAndSession(t *testing.T) {
	svc, _, clients, _ := newAuthService(&stubMailer{})

	identity, client, session, err := svc.SignUp(context.Background(), "Jane Doe", "Acme", "jane@client.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if identity.ID == "" {
		t.Fatal("identity id not assigned")
	}
	if client.UserID != identity.ID {
		t.Fatalf("client linked to %q, want %q", client.UserID, identity.ID)
	}
	if client.ContactEmail != "jane@client.test" {
		t.Fatalf("contact email %q", client.ContactEmail)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("session tokens missing")
	}
	if len(clients.clients) != 1 {
		t.Fatalf("stored %d client profiles, want 1", len(clients.clients))
	}
}

func TestSignUpFailedProfileCreateFreesEmail(t *testing.T) {
	svc, identities, clients, _ := newAuthService(&stubMailer{})

	clients.createErr = errors.New("insert failed")
	if _, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass"); err == nil {
		t.Fatal("sign up succeeded despite profile insert failure")
	}
	// The identity insert was rolled back, not left claiming the email.
	if _, err := identities.GetByEmail(context.Background(), "jane@client.test"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("identity left behind after failed sign-up: %v", err)
	}

	clients.createErr = nil
	if _, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass"); err != nil {
		t.Fatalf("retry after failed sign-up: %v", err)
	}
}

func TestSignUpNormalizesEmail(t *testing.T) {
	svc, _, _, _ := newAuthService(&stubMailer{})

	identity, client, _, err := svc.SignUp(context.Background(), "Bob", "", "  Bob@Client.Test ", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if identity.Email != "bob@client.test" {
		t.Fatalf("stored email %q, want %q", identity.Email, "bob@client.test")
	}
	if client.ContactEmail != "bob@client.test" {
		t.Fatalf("contact email %q, want %q", client.ContactEmail, "bob@client.test")
	}

	// Sign-in accepts any casing of the same address.
	if _, _, err := svc.SignIn(context.Background(), "BOB@CLIENT.TEST", "s3cret-pass"); err != nil {
		t.Fatalf("mixed-case sign in: %v", err)
	}

	// A mixed-case registration matches a lowercase allowlist entry.
	gate := auth.NewGate(&allowlistStub{entries: map[string]bool{"bob@client.test": true}}, zap.NewNop())
	if outcome := gate.Evaluate(context.Background(), identity, auth.CapabilityAdmin); outcome != auth.OutcomeAuthorized {
		t.Fatalf("allowlisted identity denied: %v", outcome)
	}
}

type allowlistStub struct {
	entries map[string]bool
}

func (s *allowlistStub) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return s.entries[email], nil
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthService(&stubMailer{})

	if _, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, _, _, err := svc.SignUp(context.Background(), "Other Jane", "", "jane@client.test", "other-pass"); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestSignInVerifiesPassword(t *testing.T) {
	svc, _, _, _ := newAuthService(&stubMailer{})
	_, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, _, err := svc.SignIn(context.Background(), "jane@client.test", "s3cret-pass"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, _, err := svc.SignIn(context.Background(), "jane@client.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.SignIn(context.Background(), "nobody@client.test", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _, _ := newAuthService(&stubMailer{})
	_, _, session, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// The presented token was consumed; replaying it must fail.
	if _, err := svc.Refresh(context.Background(), session.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("replayed refresh: got %v, want ErrInvalidCredentials", err)
	}
}

func TestSignOutRevokesRefreshToken(t *testing.T) {
	svc, _, _, _ := newAuthService(&stubMailer{})
	_, _, session, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.SignOut(context.Background(), session.RefreshToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), session.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("refresh after sign-out: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	mailer := &stubMailer{}
	svc, _, _, _ := newAuthService(mailer)

	if err := svc.RequestPasswordReset(context.Background(), "nobody@client.test"); err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("sent %d emails for unknown account", len(mailer.sent))
	}
}

func TestRequestPasswordResetEmailsDeepLink(t *testing.T) {
	mailer := &stubMailer{}
	svc, _, _, _ := newAuthService(mailer)
	_, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	mailer.sent = nil

	if err := svc.RequestPasswordReset(context.Background(), "jane@client.test"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.sent))
	}
	body := mailer.sent[0].HTML
	if !strings.Contains(body, "https://example.test/reset-password?access_token=") {
		t.Fatalf("reset email missing deep link: %s", body)
	}
	if !strings.Contains(body, "refresh_token=") {
		t.Fatal("reset email missing refresh token parameter")
	}
}

func TestConfirmPasswordResetUpdatesHash(t *testing.T) {
	svc, identities, _, vault := newAuthService(&stubMailer{})
	identity, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "old-password")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	accessToken, _, err := svc.TokenManager().GenerateTokenWithTTL(identity.ID, identity.Email, 30*time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	resetToken := "reset-token-1"
	if err := vault.Save(context.Background(), persistence.TokenPurposePasswordReset, resetToken, identity.ID, 30*time.Minute); err != nil {
		t.Fatalf("save reset token: %v", err)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), accessToken, resetToken, "new-password"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}

	updated, err := identities.GetByID(context.Background(), identity.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.ComparePassword(updated.PasswordHash, "new-password"); err != nil {
		t.Fatal("new password does not verify")
	}

	// The reset token is single-use.
	if err := svc.ConfirmPasswordReset(context.Background(), accessToken, resetToken, "another"); err == nil {
		t.Fatal("reset token replay accepted")
	}
}

func TestConfirmPasswordResetRejectsMismatchedIdentity(t *testing.T) {
	svc, _, _, vault := newAuthService(&stubMailer{})
	identity, _, _, err := svc.SignUp(context.Background(), "Jane", "", "jane@client.test", "old-password")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	accessToken, _, err := svc.TokenManager().GenerateTokenWithTTL(identity.ID, identity.Email, 30*time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	// Reset token stored for a different identity.
	if err := vault.Save(context.Background(), persistence.TokenPurposePasswordReset, "stolen", "identity-999", 30*time.Minute); err != nil {
		t.Fatal(err)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), accessToken, "stolen", "new-password"); err == nil {
		t.Fatal("mismatched reset tokens accepted")
	}
}
