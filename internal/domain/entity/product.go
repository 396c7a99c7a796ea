package entity

import "time"

// Product representa un producto o SKU rastreado por el motor de inventario.
// Inmutable después de su creación para efectos del motor (solo datos descriptivos).
type Product struct {
	ID        string
	Name      string
	Category  string
	Unit      string // unidad de medida (ej. "kg", "unidad", "caja")
	CreatedAt time.Time
}
