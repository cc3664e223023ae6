package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/ugcompta/invoiceflow/internal/application/analytics"
	"github.com/ugcompta/invoiceflow/internal/application/auth"
	"github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/application/declaration"
	"github.com/ugcompta/invoiceflow/internal/application/usecase"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	BusinessUC    *usecase.BusinessUseCase
	UserUC        *usecase.UserUseCase
	ModuleService *usecase.ModuleService
	CustomerUC    *billing.CustomerUseCase
	ProductUC     *billing.ProductUseCase
	PurchaseUC    *billing.PurchaseUseCase
	InvoiceUC     *billing.InvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	DeclarationUC *declaration.UseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	Logger        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	admin := RequireRole(entity.RoleAdmin)
	accounting := RequireRole(entity.RoleAdmin, entity.RoleAccountant)
	module := func(name string) fiber.Handler {
		return RequireModule(name, deps.ModuleService, deps.Logger)
	}

	// Auth: login público; el alta de usuarios la hace un admin autenticado.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", AuthMiddleware(deps.JWTSecret), admin, authHandler.Register)

	// Onboarding (público)
	businessHandler := NewBusinessHandler(deps.BusinessUC, deps.ModuleService)
	api.Post("/businesses", businessHandler.Onboard)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	business := protected.Group("/business")
	business.Get("/", businessHandler.Get)
	business.Put("/", admin, businessHandler.Update)
	business.Get("/tax-config", businessHandler.TaxConfig)
	business.Get("/tax-rates", businessHandler.TaxRates)
	business.Get("/modules", businessHandler.Modules)

	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	invoicing := module(entity.ModuleInvoicing)

	customers := protected.Group("/customers", invoicing)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	products := protected.Group("/products", invoicing)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	invoices := protected.Group("/invoices", invoicing)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/issue", invoiceHandler.Issue)
	invoices.Post("/:id/pay", accounting, invoiceHandler.Pay)
	invoices.Post("/:id/cancel", accounting, invoiceHandler.Cancel)
	invoices.Delete("/:id", invoiceHandler.Delete)

	purchases := protected.Group("/purchases", module(entity.ModulePurchases), accounting)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Delete("/:id", purchaseHandler.Delete)

	declarations := protected.Group("/declarations", module(entity.ModuleDeclarations), accounting)
	declHandler := NewDeclarationHandler(deps.DeclarationUC)
	declarations.Get("/g50", declHandler.G50)
	declarations.Get("/g50/export", declHandler.ExportG50)
	declarations.Get("/g12", declHandler.G12)
	declarations.Get("/g12/export", declHandler.ExportG12)
	declarations.Get("/g12bis", declHandler.G12bis)
	declarations.Get("/g12bis/export", declHandler.ExportG12bis)

	dashboard := protected.Group("/dashboard", module(entity.ModuleDashboard))
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
