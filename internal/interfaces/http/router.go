package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/auth"
	"github.com/tochman/visinv-api/internal/application/invoicing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateInvoice *invoicing.CreateInvoiceUseCase
	InvoiceUC     *invoicing.InvoiceUseCase
	DocumentUC    *invoicing.DocumentUseCase
	PaymentLedger *invoicing.PaymentLedger
	ClientUC      *invoicing.ClientUseCase
	SettingsUC    *invoicing.SettingsUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoiceUC, deps.DocumentUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/void", invoiceHandler.Void)
	invoices.Post("/:id/copy", invoiceHandler.Copy)
	invoices.Post("/:id/viewed", invoiceHandler.MarkViewed)
	invoices.Post("/:id/reminder", invoiceHandler.SendReminder)
	invoices.Get("/:id/events", invoiceHandler.Timeline)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)

	// Pagos de factura (protegido)
	paymentHandler := NewPaymentHandler(deps.PaymentLedger)
	invoices.Post("/:id/payments", paymentHandler.Record)
	invoices.Get("/:id/payments", paymentHandler.List)
	invoices.Get("/:id/balance", paymentHandler.Balance)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)

	// Organization settings (protegido)
	organization := protected.Group("/organization")
	organizationHandler := NewOrganizationHandler(deps.SettingsUC)
	organization.Get("/numbering", organizationHandler.GetNumbering)
	organization.Put("/numbering", organizationHandler.UpdateNumbering)
}
