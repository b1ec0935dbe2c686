package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reduxreimagine/portal-service/internal/api/http/handlers"
	"github.com/reduxreimagine/portal-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Contact  *handlers.ContactHandler
	Profile  *handlers.ProfileHandler
	Projects *handlers.ProjectsHandler
	Tickets  *handlers.TicketsHandler
	Invoices *handlers.InvoicesHandler
	Admin    *handlers.AdminHandler

	Identity *auth.IdentityResolver
	Gate     *auth.Gate
}

// RegisterRoutes wires HTTP routes. Every route below the /api prefix
// runs the identity resolver; the capability gate then decides access
// per route. Gates attach per route rather than as group middleware:
// fiber mounts group middleware by path prefix, so a gate on an empty
// prefix group would also run on /api/admin routes and redirect to the
// wrong login page.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.Identity.Resolve)
	public := cfg.Gate.Require(auth.CapabilityPublic)
	client := cfg.Gate.Require(auth.CapabilityClient)

	// Public surface: anyone may reach these.
	api.Post("/contact", public, cfg.Contact.Submit)
	api.Post("/auth/signup", public, cfg.Auth.SignUp)
	api.Post("/auth/signin", public, cfg.Auth.SignIn)
	api.Post("/auth/signout", public, cfg.Auth.SignOut)
	api.Post("/auth/refresh", public, cfg.Auth.Refresh)
	api.Post("/auth/reset-password", public, cfg.Auth.RequestPasswordReset)
	api.Post("/auth/reset-password/confirm", public, cfg.Auth.ConfirmPasswordReset)

	// Client area: any signed-in identity.
	api.Get("/profile", client, cfg.Profile.GetProfile)
	api.Patch("/profile/phone", client, cfg.Profile.UpdatePhone)
	api.Get("/projects", client, cfg.Projects.ListMine)
	api.Get("/tickets", client, cfg.Tickets.ListMine)
	api.Post("/tickets", client, cfg.Tickets.Create)
	api.Get("/invoices", client, cfg.Invoices.ListMine)
	api.Get("/invoices/:id/file", client, cfg.Invoices.DownloadFile)

	// Admin area: signed-in identity on the allowlist.
	admin := api.Group("/admin", cfg.Gate.Require(auth.CapabilityAdmin))
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/clients", cfg.Admin.ListClients)
	admin.Get("/projects", cfg.Projects.ListAll)
	admin.Post("/projects", cfg.Projects.Create)
	admin.Put("/projects/:id", cfg.Projects.Update)
	admin.Get("/tickets", cfg.Tickets.ListAll)
	admin.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	admin.Get("/invoices", cfg.Invoices.ListAll)
	admin.Post("/invoices", cfg.Invoices.Create)
	admin.Patch("/invoices/:id/status", cfg.Invoices.UpdateStatus)
	admin.Get("/admins", cfg.Admin.ListAdmins)
	admin.Post("/admins", cfg.Admin.AddAdmin)
	admin.Delete("/admins/:id", cfg.Admin.RemoveAdmin)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": fiber.Map{
			"code":    "NOT_FOUND",
			"message": "route not found",
		}})
	})
}
