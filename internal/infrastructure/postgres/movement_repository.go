package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro mayor.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, transaction_id, product_id, warehouse_id, type, quantity, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	transactionID := (*string)(nil)
	if movement.TransactionID != "" {
		transactionID = &movement.TransactionID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, transactionID, movement.ProductID, movement.WarehouseID,
		movement.Type, movement.Quantity, movement.Date, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByTransaction lista los movimientos de una operación lógica.
func (r *StockMovementRepo) ListByTransaction(transactionID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, transaction_id, product_id, warehouse_id, type, quantity, date, created_at
		FROM stock_movements WHERE transaction_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var txID *string
		if err := rows.Scan(&m.ID, &txID, &m.ProductID, &m.WarehouseID,
			&m.Type, &m.Quantity, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if txID != nil {
			m.TransactionID = *txID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
