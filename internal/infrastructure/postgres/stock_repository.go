package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). La fila de stock es la unidad de exclusión mutua del motor.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila de stock de un producto en una bodega. Un par sin fila
// se devuelve con cantidades en cero.
func (r *StockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, false)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR
// UPDATE). Pares (producto, bodega) distintos nunca se bloquean entre sí.
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, true)
}

func (r *StockRepo) get(productID, warehouseID string, forUpdate bool) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, available, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	if forUpdate {
		query += `
		FOR UPDATE`
	}
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.Available, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				Available:   decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza las cantidades de la fila (por producto y bodega).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, available, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, available = EXCLUDED.available, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.WarehouseID, stock.Quantity, stock.Available)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// SumQuantityByWarehouse suma el stock físico de todos los productos de la
// bodega (validación de capacidad).
func (r *StockRepo) SumQuantityByWarehouse(warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock WHERE warehouse_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, warehouseID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock by warehouse: %w", err)
	}
	return total, nil
}
