package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario.
// Solo una bodega puede ser la bodega por defecto (IsDefault).
type Warehouse struct {
	ID                 string
	Name               string
	Code               string // único, corto (ej. "BOG-01")
	Address            string
	IsActive           bool
	IsDefault          bool
	AllowNegativeStock bool // política: permitir cantidad negativa en ventas confirmadas
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
