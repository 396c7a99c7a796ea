package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// DeliveryHandler maneja los eventos de cierre de entregas y su consulta.
type DeliveryHandler struct {
	coordinator *fulfillment.Coordinator
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(coordinator *fulfillment.Coordinator) *DeliveryHandler {
	return &DeliveryHandler{coordinator: coordinator}
}

// Complete godoc
// @Summary      Completar entrega
// @Description  Marca la entrega como delivered (fija delivered_at) y mueve el pedido a delivered.
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/complete [post]
func (h *DeliveryHandler) Complete(c *fiber.Ctx) error {
	if err := h.coordinator.CompleteDelivery(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrega completada"})
}

// Fail godoc
// @Summary      Marcar entrega como fallida
// @Description  El pedido permanece dispatched; la reposición depende de ENGINE_RESTOCK_ON_FAILURE.
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/fail [post]
func (h *DeliveryHandler) Fail(c *fiber.Ctx) error {
	if err := h.coordinator.FailDelivery(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrega marcada como fallida"})
}

// GetByID godoc
// @Summary      Obtener entrega por ID
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	delivery, err := h.coordinator.GetDelivery(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

func toDeliveryResponse(d *entity.Delivery) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		ID:          d.ID,
		OrderID:     d.OrderID,
		DeliveredBy: d.DeliveredBy,
		DeliveredAt: d.DeliveredAt,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
