package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	// GetDefault devuelve la bodega por defecto (nil si no hay ninguna).
	GetDefault(ctx context.Context) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	// UnsetDefaultExcept quita is_default de todas las bodegas salvo la indicada.
	// Se invoca antes de marcar una nueva bodega por defecto (invariante: solo una).
	UnsetDefaultExcept(ctx context.Context, id string) error
	// HasStockItems indica si alguna fila de stock referencia la bodega.
	HasStockItems(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
