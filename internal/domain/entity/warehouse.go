package entity

import "time"

// GeoPoint coordenadas geográficas (lat/lon).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Capacity es el tope de unidades totales de la bodega, sumando todos los productos:
// la suma de Stock.Quantity de la bodega nunca debe superar Capacity.
type Warehouse struct {
	ID        string
	Name      string
	Location  GeoPoint
	Capacity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
