package dto

// AddStockRequest entrada administrativa de stock (IN).
type AddStockRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Quantity    string `json:"quantity" validate:"required"`
}

// InventoryLevelResponse nivel de stock de un par (producto, bodega).
// Quantity es stock físico; Available descuenta las reservas en vuelo.
type InventoryLevelResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    string `json:"quantity"`
	Available   string `json:"available"`
}
