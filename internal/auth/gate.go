package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reduxreimagine/portal-service/internal/domain"
	"github.com/reduxreimagine/portal-service/internal/observability"
)

// Capability labels the access requirement of a route.
type Capability string

const (
	CapabilityPublic Capability = "public"
	CapabilityClient Capability = "client"
	CapabilityAdmin  Capability = "admin"
)

// Outcome is the gate's decision for a single route evaluation.
type Outcome string

const (
	OutcomeAuthorized  Outcome = "authorized"
	OutcomeDeniedLogin Outcome = "denied_login"
	OutcomeDeniedAdmin Outcome = "denied_admin_login"
)

// Redirect targets for denied evaluations.
const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
)

// AdminLookup reports whether an email is on the admin allowlist.
type AdminLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Gate decides, per route evaluation, whether an anonymous visitor, a
// signed-in client, or a signed-in admin may proceed. It reads the
// already-resolved identity and the allowlist; it mutates neither.
type Gate struct {
	admins AdminLookup
	logger *zap.Logger
}

// NewGate constructs the gate.
func NewGate(admins AdminLookup, logger *zap.Logger) *Gate {
	return &Gate{admins: admins, logger: logger}
}

// Evaluate maps (identity, required capability) to an outcome.
//
// The allowlist lookup is only issued once identity resolution has
// completed and produced a principal; it never runs for an anonymous
// request. A lookup error is indistinguishable from "not an admin":
// ambiguous authorization state never grants privilege.
func (g *Gate) Evaluate(ctx context.Context, identity *domain.Identity, required Capability) Outcome {
	switch required {
	case CapabilityPublic:
		return OutcomeAuthorized

	case CapabilityClient:
		if identity == nil {
			return OutcomeDeniedLogin
		}
		return OutcomeAuthorized

	case CapabilityAdmin:
		if identity == nil {
			return OutcomeDeniedAdmin
		}
		isAdmin, err := g.admins.ExistsByEmail(ctx, identity.Email)
		if err != nil {
			g.logger.Warn("admin allowlist lookup failed; denying", zap.Error(err))
			return OutcomeDeniedAdmin
		}
		if !isAdmin {
			return OutcomeDeniedAdmin
		}
		return OutcomeAuthorized

	default:
		// Unknown capability tags deny rather than allow.
		return OutcomeDeniedLogin
	}
}

// Require returns middleware enforcing the capability. Denied
// evaluations redirect with 303 See Other so that a history-replacing
// navigation lands on the matching login page instead of looping back.
func (g *Gate) Require(required Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		outcome := g.Evaluate(c.Context(), identity, required)
		observability.GateDecisions.WithLabelValues(string(required), string(outcome)).Inc()

		switch outcome {
		case OutcomeAuthorized:
			return c.Next()
		case OutcomeDeniedAdmin:
			return c.Redirect(AdminLoginPath, fiber.StatusSeeOther)
		default:
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}
	}
}
