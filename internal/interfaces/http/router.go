package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	OrderUC    *usecase.OrderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Las rutas aceptan la barra final (StrictRouting desactivado).
func Router(app *fiber.App, deps RouterDeps) {
	authenticated := AuthMiddleware(deps.JWTSecret)
	optional := OptionalAuth(deps.JWTSecret)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/login", authHandler.Login)
	app.Post("/reset-password", authHandler.RequestPasswordReset)
	app.Patch("/reset-password", authHandler.ConfirmPasswordReset)

	// Products: lectura libre, publicación solo proveedores
	productHandler := NewProductHandler(deps.ProductUC)
	products := app.Group("/products")
	products.Get("/feed.xml", productHandler.Feed)
	products.Get("/", optional, productHandler.List)
	products.Post("/", authenticated, Require(access.ProviderOrReadOnly), productHandler.Create)

	// Categories: lectura libre, alta solo staff
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := app.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", authenticated, Require(access.AdminOrReadOnly), categoryHandler.Create)

	// Users (público)
	userHandler := NewUserHandler(deps.UserUC)
	users := app.Group("/users")
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)

	// Orders (protegido)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := app.Group("/orders", authenticated, Require(access.IsAuthenticated))
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Post("/:id/notify-fulfilment", orderHandler.NotifyFulfilment)
	orders.Get("/:id/receipt", orderHandler.Receipt)
}
