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

	_ "github.com/jhoicas/retail-api/docs"
	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/ports"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	infrafeed "github.com/jhoicas/retail-api/internal/infrastructure/feed"
	inframail "github.com/jhoicas/retail-api/internal/infrastructure/mail"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/retail-api/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-api/internal/interfaces/http"
	"github.com/jhoicas/retail-api/pkg/config"
	"github.com/jhoicas/retail-api/pkg/logger"
)

// @title        Retail API
// @version      1.0
// @description  Marketplace de proveedores y clientes: productos, categorías, pedidos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL o memoria según STORAGE_DRIVER.
	var (
		repos    ports.Repositories
		txRunner ports.TxRunner
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		repos = store.Repositories()
		txRunner = memory.NewTxRunner(store)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema PostgreSQL")
		}
		repos = postgres.NewRepositories(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Correo: SMTP si está configurado; si no, solo log.
	var mailer ports.Mailer
	if cfg.Mail.Enabled() {
		mailer = inframail.NewSMTPMailer(cfg.Mail, log.Named("mail"))
	} else {
		mailer = inframail.NewLogMailer(log.Named("mail"))
		log.Warn().Msg("SMTP_HOST vacío: los correos solo se registran en el log")
	}

	feedBuilder := infrafeed.NewXMLFeedBuilder(cfg.App.Name)
	receiptGenerator := infrapdf.NewReceiptGenerator(cfg.App.Name)

	userUC := usecase.NewUserUseCase(repos.Users, repos.Products, log.Named("users"))
	productUC := usecase.NewProductUseCase(repos.Products, repos.Categories, txRunner, feedBuilder, log.Named("products"))
	categoryUC := usecase.NewCategoryUseCase(repos.Categories, txRunner, log.Named("categories"))
	orderUC := usecase.NewOrderUseCase(repos.Orders, repos.Users, txRunner, mailer, receiptGenerator, cfg.Mail.From, log.Named("orders"))
	authUC := auth.NewAuthUseCase(repos.Users, repos.ResetTokens, txRunner, mailer,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.ResetConfig{
			Secret:     cfg.Reset.Secret,
			TTLMinutes: cfg.Reset.TTLMinutes,
			Path:       cfg.Reset.Path,
			From:       cfg.Mail.ResetFrom,
		},
		log.Named("auth"),
	)

	app := fiber.New(fiber.Config{
		AppName:       cfg.App.Name,
		StrictRouting: false,
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 10,
		IdleTimeout:   time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		OrderUC:    orderUC,
		JWTSecret:  cfg.JWT.Secret,
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
