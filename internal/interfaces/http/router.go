package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/auth"
	"github.com/jhoicas/Metalica-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Service   *ledger.Service
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	readers := RequireRole(RoleAdmin, RoleOperador, RoleConsulta)
	writers := RequireRole(RoleAdmin, RoleOperador)
	admins := RequireRole(RoleAdmin)

	metals := protected.Group("/metals")
	metalHandler := NewMetalHandler(deps.Service)
	metals.Get("/", readers, metalHandler.List)
	metals.Post("/", writers, metalHandler.Create)
	metals.Get("/:name", readers, metalHandler.Get)
	metals.Delete("/:name", admins, metalHandler.Delete)
	metals.Put("/:name/prices", writers, metalHandler.SetPrices)
	metals.Get("/:name/lots", readers, metalHandler.Lots)

	txHandler := NewTransactionHandler(deps.Service)
	protected.Post("/purchases", writers, txHandler.Purchase)
	protected.Post("/sales", writers, txHandler.Sale)
	protected.Post("/payments", writers, txHandler.Payment)
	transactions := protected.Group("/transactions")
	transactions.Get("/", readers, txHandler.List)
	transactions.Get("/:id", readers, txHandler.Get)
	transactions.Post("/:id/reverse", writers, txHandler.Reverse)

	parties := protected.Group("/parties")
	partyHandler := NewPartyHandler(deps.Service)
	parties.Get("/", readers, partyHandler.List)
	parties.Post("/", writers, partyHandler.Create)
	parties.Delete("/:name", admins, partyHandler.Delete)
	parties.Get("/:name/statement.pdf", readers, partyHandler.StatementPDF)
	parties.Get("/:name/statement", readers, partyHandler.Statement)

	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.Service)
	expenses.Get("/", readers, expenseHandler.List)
	expenses.Post("/", writers, expenseHandler.Create)
	expenses.Delete("/:id", writers, expenseHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.Service)
	protected.Get("/inventory/summary", readers, inventoryHandler.Summary)

	exports := protected.Group("/exports", readers)
	exportHandler := NewExportHandler(deps.Service)
	exports.Get("/transactions.csv", exportHandler.Transactions)
	exports.Get("/parties.csv", exportHandler.Parties)
	exports.Get("/expenses.csv", exportHandler.Expenses)
	exports.Get("/metals/:name/lots.csv", exportHandler.Lots)
	exports.Get("/ledger.xlsx", exportHandler.Ledger)

	adminHandler := NewAdminHandler(deps.Service)
	protected.Post("/admin/backup", admins, adminHandler.Backup)
}
