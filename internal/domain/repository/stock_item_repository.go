package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockFilter filtros para listar saldos.
type StockFilter struct {
	WarehouseID string
	Status      string // in_stock, low_stock, out_of_stock; vacío = todos
	Search      string // substring sobre product_id
	Limit       int
	Offset      int
}

// StockStatistics agregados de tablero calculados bajo demanda (sin rollup materializado).
type StockStatistics struct {
	TotalProducts   int64
	TotalStockValue decimal.Decimal // SUM(quantity * unit_cost) sobre costos conocidos
	InStockCount    int64
	LowStockCount   int64
	OutOfStockCount int64
}

// StockItemRepository define el puerto para consultar/actualizar saldos por producto+bodega.
// Los métodos de escritura se usan solo dentro de transacciones (vía TxRunner).
type StockItemRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error)
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetByProduct resuelve el saldo de un producto sin bodega explícita
	// (útil cuando el producto vive en una sola bodega).
	GetByProduct(ctx context.Context, productID string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) y la devuelve.
	// Nil si no existe: el caller decide si crearla antes de bloquear.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error)
	// Create inserta el saldo; ON CONFLICT no hace nada (carrera get-or-create).
	Create(ctx context.Context, item *entity.StockItem) error
	// UpdateBalances persiste quantity, reserved_quantity, unit_cost y timestamps
	// de la fila ya bloqueada.
	UpdateBalances(ctx context.Context, item *entity.StockItem) error
	UpdateThresholds(ctx context.Context, item *entity.StockItem) error
	List(ctx context.Context, filter StockFilter) ([]*entity.StockItem, error)
	// ListLowStock: 0 < disponible <= umbral, orden ascendente por cantidad.
	ListLowStock(ctx context.Context, warehouseID string, limit int) ([]*entity.StockItem, error)
	ListOutOfStock(ctx context.Context, warehouseID string, limit int) ([]*entity.StockItem, error)
	// ListReorder: disponible <= punto de reorden.
	ListReorder(ctx context.Context, warehouseID string) ([]*entity.StockItem, error)
	Statistics(ctx context.Context, warehouseID string) (*StockStatistics, error)
}
