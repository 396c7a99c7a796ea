package dto

import "time"

// DeliveryResponse salida de una entrega.
type DeliveryResponse struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	DeliveredBy string     `json:"delivered_by"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
