package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es la fila de libro mayor por (producto, bodega).
// Quantity es el stock físico en bodega; Available es lo no retenido por
// reservas en vuelo. Invariantes: 0 <= Available <= Quantity, siempre,
// incluso bajo reservas concurrentes.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Available   decimal.Decimal
	UpdatedAt   time.Time
}
