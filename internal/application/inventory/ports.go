package inventory

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// StockTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita la entrada administrativa de stock.
type StockTxRunner interface {
	RunStocking(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		warehouseRepo repository.WarehouseRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
