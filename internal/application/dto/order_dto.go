package dto

import "time"

// PlaceOrderRequest entrada para colocar un pedido.
// OrderID es opcional: un caller que reintenta puede fijarlo como clave de
// idempotencia.
type PlaceOrderRequest struct {
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	WarehouseID  string  `json:"warehouse_id" validate:"required,uuid"`
	Quantity     string  `json:"quantity" validate:"required"`
	CustomerName string  `json:"customer_name" validate:"required,min=1,max=200"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// PlaceOrderResponse salida al colocar un pedido.
type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
}

// DispatchOrderRequest entrada para despachar un pedido.
type DispatchOrderRequest struct {
	DeliveredBy string `json:"delivered_by" validate:"required,min=1,max=200"`
}

// DispatchOrderResponse salida al despachar.
type DispatchOrderResponse struct {
	DeliveryID string `json:"delivery_id"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Quantity      string    `json:"quantity"`
	CustomerName  string    `json:"customer_name"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	Status        string    `json:"status"`
	ReservationID string    `json:"reservation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
