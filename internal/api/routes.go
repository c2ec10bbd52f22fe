package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Get("/google/login", handler.GoogleLogin)
	auth.Get("/google/callback", handler.GoogleCallback)

	categories := api.Group("/categories", handler.AuthRequired)
	categories.Get("", handler.ListCategories)
	categories.Post("", handler.CreateCategory)
	categories.Get("/:id", handler.GetCategory)
	categories.Put("/:id", handler.UpdateCategory)
	categories.Delete("/:id", handler.DeleteCategory)

	transactions := api.Group("/transactions", handler.AuthRequired)
	transactions.Get("", handler.ListTransactions)
	transactions.Post("", handler.CreateTransaction)
	transactions.Get("/:id", handler.GetTransaction)
	transactions.Put("/:id", handler.UpdateTransaction)
	transactions.Delete("/:id", handler.DeleteTransaction)

	reports := api.Group("/reports", handler.AuthRequired)
	reports.Get("/balance", handler.BalanceReport)
	reports.Get("/monthly", handler.MonthlyReport)
	reports.Get("/by-category", handler.CategoryReport)

	if handler.debugRoutes {
		debug := api.Group("/debug", handler.AuthRequired)
		debug.Post("/seed-demo", handler.SeedDemo)
		debug.Post("/clear", handler.ClearLedger)
	}

	admin := api.Group("/admin", handler.AuthRequired, handler.SuperuserOnly)
	admin.Get("/users/count", handler.CountUsers)
}
