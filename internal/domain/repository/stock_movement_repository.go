package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Reason      string
	Reference   string // substring, case-insensitive
	Days        int    // ventana hacia atrás desde ahora; 0 = 30 días
	Limit       int
}

// MovementTodayStats contadores del día para el tablero.
type MovementTodayStats struct {
	MovementsToday     int64
	ItemsSoldToday     int64 // valor absoluto de la suma de salidas por venta
	ItemsReceivedToday int64 // suma de entradas por compra
}

// MovementSummaryRow agregado por razón dentro de una ventana de días.
type MovementSummaryRow struct {
	Reason        string
	Count         int64
	TotalQuantity int64
}

// StockMovementRepository define el puerto del libro de auditoría.
// Solo inserta y consulta: las filas jamás se actualizan ni borran.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// SumChangesByStockItem suma quantity_change del libro para un saldo
	// (debe igualar la cantidad actual; se usa en conciliación).
	SumChangesByStockItem(ctx context.Context, stockItemID string) (int64, error)
	TodayStats(ctx context.Context, warehouseID string) (*MovementTodayStats, error)
	SummaryByReason(ctx context.Context, days int, warehouseID string) ([]MovementSummaryRow, error)
}
