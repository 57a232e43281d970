package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// InventoryCountRepository define el puerto para sesiones de conteo cíclico.
type InventoryCountRepository interface {
	Create(ctx context.Context, count *entity.InventoryCount) error
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	// TransitionStatus persiste estado y timestamps solo si la sesión sigue en
	// fromStatus (transición condicional contra carreras check-then-act).
	// Devuelve false cuando otra transición ganó entre la lectura y la escritura.
	TransitionStatus(ctx context.Context, count *entity.InventoryCount, fromStatus string) (bool, error)
	List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryCount, error)

	CreateItem(ctx context.Context, item *entity.InventoryCountItem) error
	GetItemByID(ctx context.Context, id string) (*entity.InventoryCountItem, error)
	UpdateItemCount(ctx context.Context, item *entity.InventoryCountItem) error
	ListItems(ctx context.Context, countID string) ([]*entity.InventoryCountItem, error)
}
