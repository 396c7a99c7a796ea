package event

import "time"

// Tipos de evento de cumplimiento publicados tras cada transacción exitosa.
const (
	TypeOrderPlaced       = "OrderPlaced"
	TypeOrderDispatched   = "OrderDispatched"
	TypeOrderCancelled    = "OrderCancelled"
	TypeDeliveryCompleted = "DeliveryCompleted"
	TypeDeliveryFailed    = "DeliveryFailed"
)

// FulfillmentEvent notifica un cambio de estado del ciclo pedido/entrega.
// Se publica fuera de la transacción (best effort): los consumidores no deben
// asumir entrega exactamente una vez.
type FulfillmentEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	DeliveryID  string    `json:"delivery_id,omitempty"`
	ProductID   string    `json:"product_id,omitempty"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	Quantity    string    `json:"quantity,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
