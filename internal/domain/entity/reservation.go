package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva de stock.
const (
	ReservationHeld      = "held"      // retención activa: Available ya descontado
	ReservationCommitted = "committed" // consolidada: Quantity descontado
	ReservationReleased  = "released"  // liberada: Available devuelto
)

// Reservation es el registro interno que ata un pedido a una fila de stock
// con una cantidad retenida. Una reserva held descuenta Available sin tocar
// Quantity; commit la convierte en descuento físico y release la devuelve.
type Reservation struct {
	ID          string
	OrderID     string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	State       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Finalized indica si la reserva ya no admite commit ni release.
func (r *Reservation) Finalized() bool {
	return r.State != ReservationHeld
}
