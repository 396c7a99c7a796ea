package fulfillment

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/event"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor: o se
// aplican todos los efectos sobre pedido/entrega/stock o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		orderRepo repository.OrderRepository,
		deliveryRepo repository.DeliveryRepository,
		reservationRepo repository.ReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// EventPublisher publica eventos de cumplimiento tras cada transacción
// exitosa. La publicación es best effort: un fallo se registra en log y no
// afecta el resultado de la operación.
type EventPublisher interface {
	Publish(ctx context.Context, evt event.FulfillmentEvent) error
}

// NopPublisher descarta los eventos (tests y despliegues sin broker).
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, event.FulfillmentEvent) error { return nil }
