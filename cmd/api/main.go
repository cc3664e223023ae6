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

	appanalytics "github.com/ugcompta/invoiceflow/internal/application/analytics"
	"github.com/ugcompta/invoiceflow/internal/application/auth"
	"github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/application/declaration"
	"github.com/ugcompta/invoiceflow/internal/application/usecase"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
	infrapdf "github.com/ugcompta/invoiceflow/internal/infrastructure/pdf"
	"github.com/ugcompta/invoiceflow/internal/infrastructure/postgres"
	httpRouter "github.com/ugcompta/invoiceflow/internal/interfaces/http"
	"github.com/ugcompta/invoiceflow/pkg/config"
	"github.com/ugcompta/invoiceflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("esquema actualizado")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	moduleRepo := postgres.NewModuleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	declRepo := postgres.NewDeclarationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Tasas y baremos: valores de la ley de finanzas salvo override en fiscal_parameters.
	resolver := tax.NewRateResolver(postgres.NewFiscalParameterRepository(pool))

	authUC := auth.NewAuthUseCase(userRepo, businessRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	businessUC := usecase.NewBusinessUseCase(txRunner, businessRepo, resolver, usecase.TokenConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, businessRepo, customerRepo, productRepo, invoiceRepo, resolver,
		billing.InvoiceConfig{
			StampDutyEnabled: cfg.Fiscal.StampDutyEnabled,
			DefaultDueDays:   cfg.Fiscal.DefaultDueDays,
		},
	)
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, businessRepo, customerRepo, infrapdf.NewMarotoPDFGenerator())

	// Barrido periódico issued -> overdue.
	if cfg.Fiscal.ReminderInterval > 0 {
		sweeper := billing.NewReminderSweeper(invoiceRepo, cfg.Fiscal.ReminderInterval, log.Component("reminder_sweeper"))
		go sweeper.Run(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "InvoiceFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		BusinessUC:    businessUC,
		UserUC:        usecase.NewUserUseCase(userRepo),
		ModuleService: usecase.NewModuleService(moduleRepo),
		CustomerUC:    billing.NewCustomerUseCase(customerRepo),
		ProductUC:     billing.NewProductUseCase(productRepo),
		PurchaseUC:    billing.NewPurchaseUseCase(purchaseRepo),
		InvoiceUC:     invoiceUC,
		InvoicePDF:    invoicePDFUC,
		DeclarationUC: declaration.NewUseCase(businessRepo, declRepo, resolver),
		DashboardUC:   appanalytics.NewDashboardUseCase(analyticsRepo, businessRepo),
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrateUp(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
