package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/compras-pro/internal/application/auth"
	"github.com/tu-usuario/compras-pro/internal/application/orders"
	"github.com/tu-usuario/compras-pro/internal/application/usecase"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	ProductUC     *usecase.ProductUseCase
	ProviderUC    *usecase.ProviderUseCase
	RuleUC        *usecase.RuleUseCase
	OrderUC       *orders.OrderUseCase
	OrderPDFUC    *orders.PDFUseCase
	AuthUC        *auth.AuthUseCase
	Runner        ReplenishmentRunner
	JWTSecret     string
	TriggerSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Trigger del motor: autenticación propia (secreto o cabecera de cron),
	// fuera del middleware JWT.
	replHandler := NewReplenishmentHandler(deps.Runner, deps.TriggerSecret)
	api.Post("/replenishment/run", replHandler.TriggerPost)
	api.Get("/replenishment/run", replHandler.TriggerCron)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Providers (protegido)
	providers := protected.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Post("/", providerHandler.Create)
	providers.Get("/", providerHandler.List)
	providers.Get("/:id", providerHandler.GetByID)
	providers.Put("/:id", providerHandler.Update)
	providers.Delete("/:id", RequireRole(entity.RoleAdmin), providerHandler.Delete)

	// Reorder rules (protegido; edición solo admin y comprador)
	rules := protected.Group("/rules", RequireRole(entity.RoleAdmin, entity.RoleComprador))
	ruleHandler := NewRuleHandler(deps.RuleUC)
	rules.Post("/", ruleHandler.Create)
	rules.Get("/", ruleHandler.List)
	rules.Get("/:id", ruleHandler.GetByID)
	rules.Put("/:id", ruleHandler.Update)
	rules.Put("/:id/enabled", ruleHandler.SetEnabled)
	rules.Delete("/:id", ruleHandler.Delete)

	// Generated orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderPDFUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/pdf", orderHandler.PDF)
	ordersGroup.Post("/:id/send", RequireRole(entity.RoleAdmin, entity.RoleComprador), orderHandler.MarkSent)
	ordersGroup.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleComprador), orderHandler.Cancel)
	ordersGroup.Post("/:id/receive", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), orderHandler.Receive)
}
