package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain"
)

// Estados de un pedido.
const (
	OrderPending    = "pending"
	OrderDispatched = "dispatched"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// orderTransitions tabla de transiciones válidas de estado de pedido.
// pending -> dispatched -> delivered; pending -> cancelled. Sin saltos ni
// retrocesos: un pedido despachado no puede cancelarse, se resuelve por la
// entrega (éxito o fallo).
var orderTransitions = map[string][]string{
	OrderPending:    {OrderDispatched, OrderCancelled},
	OrderDispatched: {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// Order representa un pedido de un cliente: un producto, una cantidad >= 1,
// y la bodega elegida como origen. El pedido queda atado a una única fila de
// stock (una sola bodega) durante toda su vida; ReservationID referencia la
// reserva creada al colocarlo.
type Order struct {
	ID               string
	ProductID        string
	WarehouseID      string
	Quantity         decimal.Decimal
	CustomerName     string
	DeliveryLocation GeoPoint
	Status           string
	ReservationID    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransition indica si el pedido admite pasar al estado destino.
func (o *Order) CanTransition(to string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition mueve el pedido al estado destino validando contra la tabla;
// rechaza cualquier escritura ilegal con ErrInvalidTransition.
func (o *Order) Transition(to string, now time.Time) error {
	if !o.CanTransition(to) {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// Terminal indica si el pedido está en un estado final (sin salidas).
func (o *Order) Terminal() bool {
	return len(orderTransitions[o.Status]) == 0
}
