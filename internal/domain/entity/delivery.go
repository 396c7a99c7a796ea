package entity

import (
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain"
)

// Estados de una entrega.
const (
	DeliveryInTransit = "in-transit"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// deliveryTransitions tabla de transiciones de entrega.
// in-transit -> delivered | failed; ambos terminales.
var deliveryTransitions = map[string][]string{
	DeliveryInTransit: {DeliveryDelivered, DeliveryFailed},
	DeliveryDelivered: {},
	DeliveryFailed:    {},
}

// Delivery representa el traslado físico de un pedido al cliente.
// Existe solo cuando su pedido llegó a dispatched; relación uno a uno.
// DeliveredAt se fija al completar la entrega.
type Delivery struct {
	ID          string
	OrderID     string
	DeliveredBy string // identificador del transportista
	DeliveredAt *time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransition indica si la entrega admite pasar al estado destino.
func (d *Delivery) CanTransition(to string) bool {
	for _, next := range deliveryTransitions[d.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Complete marca la entrega como delivered y fija DeliveredAt.
func (d *Delivery) Complete(now time.Time) error {
	if !d.CanTransition(DeliveryDelivered) {
		return domain.ErrInvalidTransition
	}
	d.Status = DeliveryDelivered
	d.DeliveredAt = &now
	d.UpdatedAt = now
	return nil
}

// Fail marca la entrega como failed. Una entrega fallida no repone stock por
// sí sola: la reposición es política del coordinador (configurable) y el
// re-despacho es una operación administrativa sobre un pedido nuevo.
func (d *Delivery) Fail(now time.Time) error {
	if !d.CanTransition(DeliveryFailed) {
		return domain.ErrInvalidTransition
	}
	d.Status = DeliveryFailed
	d.UpdatedAt = now
	return nil
}
