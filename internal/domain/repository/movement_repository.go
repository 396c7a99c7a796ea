package repository

import "github.com/jhoicas/Logistica-api/internal/domain/entity"

// StockMovementRepository define el puerto para el registro de auditoría del
// libro mayor. Solo inserta: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByTransaction(transactionID string) ([]*entity.StockMovement, error)
}
