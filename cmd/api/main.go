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

	"github.com/tu-usuario/compras-pro/internal/application/auth"
	"github.com/tu-usuario/compras-pro/internal/application/orders"
	"github.com/tu-usuario/compras-pro/internal/application/replenishment"
	"github.com/tu-usuario/compras-pro/internal/application/usecase"
	infrapdf "github.com/tu-usuario/compras-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/compras-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/compras-pro/internal/infrastructure/scheduler"
	httpRouter "github.com/tu-usuario/compras-pro/internal/interfaces/http"
	"github.com/tu-usuario/compras-pro/pkg/config"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)
	ruleRepo := postgres.NewReorderRuleRepository(pool)
	orderRepo := postgres.NewGeneratedOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	providerUC := usecase.NewProviderUseCase(providerRepo)
	ruleUC := usecase.NewRuleUseCase(ruleRepo, productRepo, providerRepo)
	orderUC := orders.NewOrderUseCase(orderRepo, txRunner)

	// PDF: representación gráfica de la orden de compra
	pdfGenerator := infrapdf.NewMarotoOrderPDFGenerator()
	orderPDFUC := orders.NewPDFUseCase(orderRepo, companyRepo, providerRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Motor de reposición: las proyecciones las sirven los mismos repos postgres.
	runner := replenishment.NewRunner(productRepo, ruleRepo, orderRepo, companyRepo, loc, log)

	// Timer interno del proceso; desactivable cuando el disparo viene del cron
	// de la plataforma.
	var sched *scheduler.Scheduler
	if cfg.Replenishment.Enabled {
		interval := time.Duration(cfg.Replenishment.IntervalMinutes) * time.Minute
		sched = scheduler.New(runner.RunAll, interval, log)
		sched.Start()
	}

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
		Title:    "Compras Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		ProductUC:     productUC,
		ProviderUC:    providerUC,
		RuleUC:        ruleUC,
		OrderUC:       orderUC,
		OrderPDFUC:    orderPDFUC,
		AuthUC:        authUC,
		Runner:        runner,
		JWTSecret:     cfg.JWT.Secret,
		TriggerSecret: cfg.Replenishment.TriggerSecret,
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

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
