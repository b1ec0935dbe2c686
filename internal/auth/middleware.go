package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/repository"
)

const identityKey = "auth_identity"

// IdentityResolver turns a bearer token into the current Identity. It
// runs before every route so that by the time a gate or handler looks
// at the request, identity resolution has already completed. Nothing
// protected is ever produced while the session is still unresolved.
type IdentityResolver struct {
	tokens     *TokenManager
	identities repository.IdentityRepository
	logger     *zap.Logger
}

// NewIdentityResolver constructs the middleware.
func NewIdentityResolver(tokens *TokenManager, identities repository.IdentityRepository, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, identities: identities, logger: logger}
}

// Resolve loads the identity behind the Authorization header, if any.
// A missing header, an invalid or expired token, and a failed identity
// load all resolve to anonymous; route gates decide what anonymous may
// reach. The resolver itself never rejects a request.
func (m *IdentityResolver) Resolve(c *fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	if token == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return c.Next()
	}

	identity, err := m.identities.GetByID(c.Context(), claims.Subject)
	if err != nil {
		// Token was valid but the principal could not be loaded;
		// treat the session as unresolved rather than trusting claims.
		m.logger.Warn("identity load failed", zap.Error(err))
		return c.Next()
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the resolved identity, or nil for an
// anonymous visitor.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
