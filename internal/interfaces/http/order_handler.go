package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// OrderHandler maneja las peticiones HTTP de pedidos: colocación, despacho,
// cancelación y consulta. Todas las mutaciones pasan por el coordinador.
type OrderHandler struct {
	coordinator *fulfillment.Coordinator
}

// NewOrderHandler construye el handler.
func NewOrderHandler(coordinator *fulfillment.Coordinator) *OrderHandler {
	return &OrderHandler{coordinator: coordinator}
}

// Place godoc
// @Summary      Colocar pedido
// @Description  Reserva stock y crea el pedido en pending. order_id opcional como clave de idempotencia.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "product_id, warehouse_id, quantity, customer_name, lat, lon"
// @Success      201   {object}  dto.PlaceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, err := decimal.NewFromString(in.Quantity)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad inválida"})
	}
	orderID, err := h.coordinator.PlaceOrder(c.Context(), fulfillment.PlaceOrderInput{
		OrderID:          in.OrderID,
		ProductID:        in.ProductID,
		WarehouseID:      in.WarehouseID,
		Quantity:         qty,
		CustomerName:     in.CustomerName,
		DeliveryLocation: entity.GeoPoint{Lat: in.Lat, Lon: in.Lon},
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PlaceOrderResponse{OrderID: orderID})
}

// Dispatch godoc
// @Summary      Despachar pedido
// @Description  Consolida la reserva (descuenta stock físico) y crea la entrega en in-transit.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.DispatchOrderRequest  true  "delivered_by"
// @Success      200   {object}  dto.DispatchOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/dispatch [post]
func (h *OrderHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	deliveryID, err := h.coordinator.DispatchOrder(c.Context(), c.Params("id"), in.DeliveredBy)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.DispatchOrderResponse{DeliveryID: deliveryID})
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Solo pedidos en pending: libera la reserva y devuelve Available.
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.coordinator.CancelOrder(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "pedido cancelado"})
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.coordinator.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            o.ID,
		ProductID:     o.ProductID,
		WarehouseID:   o.WarehouseID,
		Quantity:      o.Quantity.String(),
		CustomerName:  o.CustomerName,
		Lat:           o.DeliveryLocation.Lat,
		Lon:           o.DeliveryLocation.Lon,
		Status:        o.Status,
		ReservationID: o.ReservationID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
