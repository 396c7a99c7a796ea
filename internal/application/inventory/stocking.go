package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// StockingUseCase registra entradas administrativas de stock (IN) de forma
// transaccional, con bloqueo de fila y validación de capacidad de bodega.
// Es la única vía para crear o aumentar filas de stock; el resto de
// mutaciones pasan por el motor de reservas.
type StockingUseCase struct {
	txRunner      StockTxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewStockingUseCase construye el caso de uso.
func NewStockingUseCase(
	txRunner StockTxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *StockingUseCase {
	return &StockingUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// AddStockInput entrada para una adición de stock.
type AddStockInput struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
}

// AddStock suma Quantity y Available del par (producto, bodega) dentro de una
// transacción. Bloquea la fila de la bodega para serializar la validación de
// capacidad: la suma de Quantity de la bodega nunca supera Capacity.
func (uc *StockingUseCase) AddStock(ctx context.Context, in AddStockInput) error {
	if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || warehouse == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	return uc.txRunner.RunStocking(ctx, func(
		stockRepo repository.StockRepository,
		warehouseRepo repository.WarehouseRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// Bloquea la bodega: dos entradas concurrentes a la misma bodega se
		// serializan y la validación de capacidad ve el total real.
		wh, err := warehouseRepo.GetForUpdate(in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		total, err := stockRepo.SumQuantityByWarehouse(in.WarehouseID)
		if err != nil {
			return err
		}
		if total.Add(in.Quantity).GreaterThan(decimal.NewFromInt(wh.Capacity)) {
			return domain.ErrCapacityExceeded
		}
		stock, err := stockRepo.GetForUpdate(in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		stock.Quantity = stock.Quantity.Add(in.Quantity)
		stock.Available = stock.Available.Add(in.Quantity)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return movementRepo.Create(&entity.StockMovement{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        entity.MovementTypeIN,
			Quantity:    in.Quantity,
			Date:        now,
			CreatedAt:   now,
		})
	})
}
