package repository

import "github.com/jhoicas/Logistica-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	// GetForUpdate bloquea la fila de la bodega (SELECT FOR UPDATE); serializa
	// las validaciones de capacidad frente a entradas concurrentes.
	GetForUpdate(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}
