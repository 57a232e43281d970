package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un StockItem.
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// StockItem representa el saldo materializado de un producto en una bodega.
// Clave única (ProductID, WarehouseID). Todas las transiciones de saldo pasan
// por el motor de inventario con bloqueo de fila; nunca se modifica por fuera.
type StockItem struct {
	ID                string
	ProductID         string // identificador opaco del catálogo (colaborador externo)
	WarehouseID       string
	Quantity          int64 // con signo: puede ser negativo si la bodega lo permite
	ReservedQuantity  int64 // >= 0, reservado para órdenes pendientes
	LowStockThreshold int64
	ReorderPoint      int64
	ReorderQuantity   int64
	UnitCost          decimal.NullDecimal // costo promedio ponderado; nulo hasta la primera entrada con costo
	LastRestockedAt   *time.Time
	LastSoldAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available devuelve la cantidad disponible: cantidad - reservado, nunca negativa.
func (s *StockItem) Available() int64 {
	if avail := s.Quantity - s.ReservedQuantity; avail > 0 {
		return avail
	}
	return 0
}

// IsInStock indica si hay unidades disponibles.
func (s *StockItem) IsInStock() bool { return s.Available() > 0 }

// IsLowStock indica si el disponible está entre 1 y el umbral de stock bajo.
func (s *StockItem) IsLowStock() bool {
	avail := s.Available()
	return avail > 0 && avail <= s.LowStockThreshold
}

// IsOutOfStock indica si no hay unidades disponibles.
func (s *StockItem) IsOutOfStock() bool { return s.Available() <= 0 }

// NeedsReorder indica si el disponible cayó al punto de reorden.
func (s *StockItem) NeedsReorder() bool { return s.Available() <= s.ReorderPoint }

// Status devuelve el estado derivado del saldo (in_stock, low_stock, out_of_stock).
func (s *StockItem) Status() string {
	switch {
	case s.IsOutOfStock():
		return StockStatusOutOfStock
	case s.IsLowStock():
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// StockValue devuelve el valor del inventario al costo promedio (cero si no hay costo).
func (s *StockItem) StockValue() decimal.Decimal {
	if !s.UnitCost.Valid {
		return decimal.Zero
	}
	return s.UnitCost.Decimal.Mul(decimal.NewFromInt(s.Quantity))
}
