package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/application/inventory"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// Ensure TxRunner implements fulfillment.TxRunner and inventory.StockTxRunner.
var _ fulfillment.TxRunner = (*TxRunner)(nil)
var _ inventory.StockTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del motor de cumplimiento y hace
// Commit o Rollback según el resultado de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	orderRepo repository.OrderRepository,
	deliveryRepo repository.DeliveryRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	orderRepo := NewOrderRepository(tx)
	deliveryRepo := NewDeliveryRepository(tx)
	reservationRepo := NewReservationRepository(tx)
	movementRepo := NewStockMovementRepository(tx)

	if err := fn(stockRepo, orderRepo, deliveryRepo, reservationRepo, movementRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStocking inicia una transacción con los repos de la entrada
// administrativa de stock (validación de capacidad bajo lock de bodega).
func (r *TxRunner) RunStocking(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	warehouseRepo repository.WarehouseRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	warehouseRepo := NewWarehouseRepository(tx)
	movementRepo := NewStockMovementRepository(tx)

	if err := fn(stockRepo, warehouseRepo, movementRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
