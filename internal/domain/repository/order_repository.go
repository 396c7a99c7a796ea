package repository

import "github.com/jhoicas/Logistica-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido; serializa las transiciones de un
	// mismo pedido (no puede despacharse y cancelarse a la vez).
	GetForUpdate(id string) (*entity.Order, error)
	Update(order *entity.Order) error
}
