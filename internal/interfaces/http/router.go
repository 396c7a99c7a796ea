package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/application/inventory"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	Stocking    *inventory.StockingUseCase
	Coordinator *fulfillment.Coordinator
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Inventory (entrada administrativa y consulta de niveles)
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Stocking, deps.Coordinator)
	invGroup.Post("/stock", inventoryHandler.AddStock)
	invGroup.Get("/level", inventoryHandler.GetLevel)

	// Orders (motor de reservas)
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Coordinator)
	orders.Post("/", orderHandler.Place)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/dispatch", orderHandler.Dispatch)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Deliveries
	deliveries := api.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.Coordinator)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Post("/:id/complete", deliveryHandler.Complete)
	deliveries.Post("/:id/fail", deliveryHandler.Fail)
}
