package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockAlertRepository define el puerto para las alertas derivadas de umbral.
type StockAlertRepository interface {
	// UpsertOpen inserta o refresca la alerta abierta (stock_item_id, alert_type).
	// El índice único parcial WHERE NOT is_resolved garantiza a lo sumo una abierta.
	UpsertOpen(ctx context.Context, alert *entity.StockAlert) error
	// ResolveOpenForStock resuelve las alertas abiertas del saldo, excepto
	// exceptType (vacío = todas). resolvedBy suele ser "system".
	ResolveOpenForStock(ctx context.Context, stockItemID, exceptType, resolvedBy string) error
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	Resolve(ctx context.Context, id, resolvedBy, notes string) error
	ListPending(ctx context.Context, warehouseID string, limit int) ([]*entity.StockAlert, error)
	CountPending(ctx context.Context, warehouseID string) (int64, error)
}
