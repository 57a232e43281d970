package entity

import "time"

// Tipos de alerta de stock.
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// StockAlert es el estado derivado del monitor de umbrales: a lo sumo una
// alerta abierta por (StockItem, tipo). Se upsertea/resuelve en la misma
// transacción de cada mutación de saldo.
type StockAlert struct {
	ID              string
	StockItemID     string
	AlertType       string
	Threshold       int64
	CurrentQuantity int64
	IsResolved      bool
	ResolvedAt      *time.Time
	ResolvedBy      string // UserID del operador o "system" si la resolvió el monitor
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
