package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// StockRepository define el puerto para la fila de libro mayor (producto, bodega).
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). La fila es
	// la unidad de exclusión mutua: operaciones sobre pares distintos no se
	// bloquean entre sí.
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// SumQuantityByWarehouse suma Quantity de todos los productos de la bodega
	// (validación de capacidad).
	SumQuantityByWarehouse(warehouseID string) (decimal.Decimal, error)
}
