package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryService *inventory.Service
	CountUC          *inventory.CountUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todo bajo /api exige Bearer Token;
// reservas, liberaciones y confirmaciones de venta no se exponen: son métodos
// de la fachada para callers internos.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Saldos de inventario
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.InventoryService)
	stock.Get("/", stockHandler.List)
	stock.Post("/transfer", stockHandler.Transfer)
	stock.Get("/reorder", stockHandler.Reorder)
	stock.Get("/:productId", stockHandler.Get)
	stock.Get("/:productId/availability", stockHandler.Availability)
	stock.Get("/:productId/ledger-check", stockHandler.LedgerCheck)
	stock.Post("/:productId/add", stockHandler.Add)
	stock.Post("/:productId/adjust", stockHandler.Adjust)
	stock.Post("/:productId/return", stockHandler.Return)
	stock.Post("/:productId/damage", stockHandler.Damage)
	stock.Put("/:productId/thresholds", stockHandler.Thresholds)

	api.Get("/statistics", stockHandler.Statistics)

	// Libro de movimientos
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.InventoryService)
	movements.Get("/", movementHandler.List)
	movements.Get("/summary", movementHandler.Summary)

	// Alertas
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.InventoryService)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/resolve", alertHandler.Resolve)

	// Conteos cíclicos
	counts := api.Group("/counts")
	countHandler := NewCountHandler(deps.CountUC)
	counts.Post("/", countHandler.Create)
	counts.Get("/", countHandler.List)
	counts.Post("/items/:id/update", countHandler.UpdateItem)
	counts.Get("/:id", countHandler.Get)
	counts.Post("/:id/start", countHandler.Start)
	counts.Post("/:id/complete", countHandler.Complete)
	counts.Post("/:id/cancel", countHandler.Cancel)

	// Bodegas
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole("admin"), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole("admin"), warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole("admin"), warehouseHandler.Delete)
}
