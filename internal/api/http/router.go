package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/growflow/backend/internal/api/http/handlers"
	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Payments       *handlers.PaymentsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/customers/signup", cfg.Auth.SignupCustomer)
	authGroup.Post("/customers/login", cfg.Auth.LoginCustomer)
	authGroup.Post("/customers/password-reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/customers/password-reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/staff/login", cfg.Auth.LoginStaff)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Me)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle)
	customers.Get("/me", auth.RequireCustomer(), cfg.Customers.Me)
	customers.Get("/me/subscription", auth.RequireCustomer(), cfg.Customers.MySubscription)

	staffOnly := auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleStaff)
	customers.Get("/", staffOnly, cfg.Customers.List)
	customers.Get("/:id", staffOnly, cfg.Customers.Get)
	customers.Patch("/:id", staffOnly, cfg.Customers.Update)
	customers.Post("/:id/quote", staffOnly, cfg.Customers.IssueQuote)
	customers.Get("/:id/payments", staffOnly, cfg.Customers.Payments)

	payments := app.Group("/payments", cfg.AuthMiddleware.Handle)
	payments.Post("/", auth.RequireCustomer(), cfg.Payments.Submit)
	payments.Get("/me", auth.RequireCustomer(), cfg.Payments.MyPayments)
	payments.Get("/pending", staffOnly, cfg.Payments.ListPending)
	payments.Patch("/:id/verify", staffOnly, cfg.Payments.Verify)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Get("/metrics", cfg.Admin.Metrics)
	admin.Get("/reports/revenue", cfg.Admin.Revenue)
	admin.Get("/export/customers", cfg.Admin.ExportCustomers)
	admin.Get("/export/payments", cfg.Admin.ExportPayments)
	admin.Post("/import/customers", cfg.Admin.Import)
	admin.Post("/staff", cfg.Admin.CreateStaff)
	admin.Get("/staff", cfg.Admin.ListStaff)
}
