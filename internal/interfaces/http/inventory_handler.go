package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/application/inventory"
)

// InventoryHandler maneja la entrada administrativa de stock y la consulta de
// niveles.
type InventoryHandler struct {
	stocking    *inventory.StockingUseCase
	coordinator *fulfillment.Coordinator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stocking *inventory.StockingUseCase, coordinator *fulfillment.Coordinator) *InventoryHandler {
	return &InventoryHandler{stocking: stocking, coordinator: coordinator}
}

// AddStock godoc
// @Summary      Registrar entrada administrativa de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "product_id, warehouse_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := decimal.NewFromString(in.Quantity)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad inválida"})
	}
	err = h.stocking.AddStock(c.Context(), inventory.AddStockInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    qty,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "stock registrado"})
}

// GetLevel godoc
// @Summary      Nivel de stock de un par (producto, bodega)
// @Description  Quantity es stock físico; Available descuenta las reservas en vuelo.
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.InventoryLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/level [get]
func (h *InventoryHandler) GetLevel(c *fiber.Ctx) error {
	level, err := h.coordinator.GetInventoryLevel(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.InventoryLevelResponse{
		ProductID:   level.ProductID,
		WarehouseID: level.WarehouseID,
		Quantity:    level.Quantity.String(),
		Available:   level.Available.String(),
	})
}
