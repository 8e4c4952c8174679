package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tochman/visinv-api/internal/application/auth"
	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/infrastructure/email"
	infrapdf "github.com/tochman/visinv-api/internal/infrastructure/pdf"
	"github.com/tochman/visinv-api/internal/infrastructure/postgres"
	"github.com/tochman/visinv-api/internal/infrastructure/ubl"
	httpRouter "github.com/tochman/visinv-api/internal/interfaces/http"
	"github.com/tochman/visinv-api/pkg/config"
	"github.com/tochman/visinv-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	orgRepo := postgres.NewOrganizationRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	auditRepo := postgres.NewAuditEventRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	subsReader := postgres.NewSubscriptionReader(pool)
	txRunner := postgres.NewTxRunner(pool)

	mailer := email.NewSMTPMailer(cfg.SMTP, log)
	audit := invoicing.NewAuditRecorder(auditRepo, log)
	quota := invoicing.NewQuotaGate(subsReader, cfg.Billing.FreeTierInvoiceLimit)
	allocator := invoicing.NewNumberAllocator()
	credit := invoicing.NewCreditResolver()

	createInvoiceUC := invoicing.NewCreateInvoiceUseCase(
		txRunner, quota, allocator, credit, audit,
		orgRepo, clientRepo, invoiceRepo,
	)
	invoiceUC := invoicing.NewInvoiceUseCase(
		invoiceRepo, clientRepo, paymentRepo, audit, mailer, log,
	)
	paymentLedger := invoicing.NewPaymentLedger(
		txRunner, invoiceRepo, paymentRepo, clientRepo, audit, mailer, log,
	)
	documentUC := invoicing.NewDocumentUseCase(
		invoiceRepo, orgRepo, clientRepo, paymentRepo,
		infrapdf.NewMarotoPDFGenerator(), ubl.NewExporter(),
	)
	clientUC := invoicing.NewClientUseCase(clientRepo)
	settingsUC := invoicing.NewSettingsUseCase(orgRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Visinv API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateInvoice: createInvoiceUC,
		InvoiceUC:     invoiceUC,
		DocumentUC:    documentUC,
		PaymentLedger: paymentLedger,
		ClientUC:      clientUC,
		SettingsUC:    settingsUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
