package repository

import "github.com/jhoicas/Logistica-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para Delivery.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	GetForUpdate(id string) (*entity.Delivery, error)
	// GetByOrderID obtiene la entrega asociada a un pedido (uno a uno).
	GetByOrderID(orderID string) (*entity.Delivery, error)
	Update(delivery *entity.Delivery) error
}
