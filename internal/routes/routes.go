package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/topupadmin/internal/config"
	"github.com/example/topupadmin/internal/handlers"
	"github.com/example/topupadmin/internal/middleware"
	"github.com/example/topupadmin/internal/services"
)

// Deps are the services the HTTP surface is built on. Audit may be nil when
// auditing is disabled.
type Deps struct {
	Orders       *services.OrderService
	Topups       *services.TopupQueueService
	Transactions *services.TransactionService
	Audit        handlers.AuditLister
}

// NewApp builds the fiber app with the console's error envelope and request
// logging. Values read from the request outlive the handler (cache loads,
// notifications), so the context is immutable.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Top-up Admin Console",
		ErrorHandler:          handlers.ErrorHandler,
		Immutable:             true,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())

	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, cfg *config.Config, deps Deps) {
	orderHandler := handlers.NewOrderHandler(deps.Orders)
	topupHandler := handlers.NewTopupHandler(deps.Topups)
	transactionHandler := handlers.NewTransactionHandler(deps.Transactions)
	auditHandler := handlers.NewAuditHandler(deps.Audit)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	admin := api.Group("/admin", middleware.AuthMiddleware(cfg.JWTSecret))

	// Orders
	orders := admin.Group("/orders")
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Patch("/:id/cancel", orderHandler.CancelOrder)

	// Top-up retry queue
	topups := admin.Group("/topups")
	topups.Get("/pending", topupHandler.ListPending)
	topups.Get("/pending/:job_id", topupHandler.GetPending)

	// Transactions
	transactions := admin.Group("/transactions")
	transactions.Get("/", transactionHandler.ListTransactions)
	transactions.Get("/stats", transactionHandler.Stats)
	transactions.Post("/bulk-update", transactionHandler.BulkUpdate)
	transactions.Post("/:id/retry", transactionHandler.Retry)

	admin.Get("/audit", auditHandler.ListEntries)
}
