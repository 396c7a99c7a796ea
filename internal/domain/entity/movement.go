package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento sobre el libro mayor de stock.
const (
	MovementTypeIN      = "IN"      // entrada administrativa de stock
	MovementTypeRESERVE = "RESERVE" // retención de Available por reserva
	MovementTypeRELEASE = "RELEASE" // devolución de Available al liberar
	MovementTypeCOMMIT  = "COMMIT"  // descuento físico al despachar
	MovementTypeRESTOCK = "RESTOCK" // reposición tras entrega fallida (opcional)
)

// StockMovement es el registro de auditoría de cada mutación del libro mayor.
// Se escribe en la misma transacción que la mutación; TransactionID agrupa
// los movimientos de una misma operación lógica (normalmente el ID del pedido).
type StockMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	Date          time.Time
	CreatedAt     time.Time
}
