package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newGateApp(t *testing.T, lookup AdminLookup) *fiber.App {
	t.Helper()
	gate := NewGate(lookup, zap.NewNop())
	app := fiber.New()
	app.Get("/client-area", gate.Require(CapabilityClient), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin-area", gate.Require(CapabilityAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireRedirectsAnonymousToLogin(t *testing.T) {
	app := newGateApp(t, &stubAdminLookup{})

	resp, err := app.Test(httptest.NewRequest("GET", "/client-area", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, fiber.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != LoginPath {
		t.Fatalf("location: got %q, want %q", loc, LoginPath)
	}
}

func TestRequireRedirectsAnonymousToAdminLogin(t *testing.T) {
	app := newGateApp(t, &stubAdminLookup{})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin-area", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, fiber.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != AdminLoginPath {
		t.Fatalf("location: got %q, want %q", loc, AdminLoginPath)
	}
}
