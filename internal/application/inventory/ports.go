package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Stock      repository.StockItemRepository
	Movements  repository.StockMovementRepository
	Alerts     repository.StockAlertRepository
	Counts     repository.InventoryCountRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que bloqueo de fila, actualización
// de saldo, fila del libro y upsert de alerta commiteen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Catalog es el puerto hacia el catálogo de productos (colaborador externo):
// existencia, precio vigente y callback de unidades vendidas.
type Catalog interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
	CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error)
	IncrementSoldCount(ctx context.Context, productID string, quantity int64) error
}
