package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Ninguno es fatal: la capa que llama decide reintento o mensaje al usuario.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrUnknownOrder       = errors.New("pedido no encontrado")
	ErrUnknownDelivery    = errors.New("entrega no encontrada")
	ErrUnknownReservation = errors.New("reserva no encontrada")
	ErrAlreadyFinalized   = errors.New("reserva ya finalizada")
	ErrCapacityExceeded   = errors.New("capacidad de la bodega excedida")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)
