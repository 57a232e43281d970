package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

const stockItemColumns = `id, product_id, warehouse_id, quantity, reserved_quantity,
	low_stock_threshold, reorder_point, reorder_quantity, unit_cost,
	last_restocked_at, last_sold_at, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Get obtiene el saldo de un producto en una bodega (nil si no existe).
func (r *StockItemRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items WHERE product_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, query, productID, warehouseID)
}

// GetByID obtiene un saldo por su ID (nil si no existe).
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, `SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1`, id)
}

// GetByProduct obtiene el saldo de un producto sin importar la bodega
// (la más antigua primero, para productos de una sola bodega).
func (r *StockItemRepo) GetByProduct(ctx context.Context, productID string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items WHERE product_id = $1 ORDER BY created_at LIMIT 1`
	return r.getOne(ctx, query, productID)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT ... FOR UPDATE).
// Si el lock_timeout vence espera, el error 55P03 se traduce a domain.ErrLockTimeout.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	item, err := r.getOne(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, translateLockError(err)
	}
	return item, nil
}

func (r *StockItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockItem, error) {
	var s entity.StockItem
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity,
		&s.LowStockThreshold, &s.ReorderPoint, &s.ReorderQuantity, &s.UnitCost,
		&s.LastRestockedAt, &s.LastSoldAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &s, nil
}

// Create inserta el saldo. ON CONFLICT DO NOTHING: si dos llamadas compiten por
// crear la misma fila, la segunda no falla y el caller la relee.
func (r *StockItemRepo) Create(ctx context.Context, s *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, product_id, warehouse_id, quantity, reserved_quantity,
			low_stock_threshold, reorder_point, reorder_quantity, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, s.WarehouseID, s.Quantity, s.ReservedQuantity,
		s.LowStockThreshold, s.ReorderPoint, s.ReorderQuantity, s.UnitCost,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// UpdateBalances persiste los saldos de la fila ya bloqueada por GetForUpdate.
func (r *StockItemRepo) UpdateBalances(ctx context.Context, s *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET quantity = $2, reserved_quantity = $3, unit_cost = $4,
		    last_restocked_at = $5, last_sold_at = $6, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Quantity, s.ReservedQuantity, s.UnitCost, s.LastRestockedAt, s.LastSoldAt,
	)
	if err != nil {
		return fmt.Errorf("update stock balances: %w", err)
	}
	return nil
}

// UpdateThresholds persiste umbral de stock bajo y parámetros de reorden.
func (r *StockItemRepo) UpdateThresholds(ctx context.Context, s *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET low_stock_threshold = $2, reorder_point = $3, reorder_quantity = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, s.ID, s.LowStockThreshold, s.ReorderPoint, s.ReorderQuantity)
	if err != nil {
		return fmt.Errorf("update stock thresholds: %w", err)
	}
	return nil
}

// List lista saldos con filtros opcionales de bodega, estado derivado y búsqueda por producto.
func (r *StockItemRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE 1=1`
	args := []any{}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		query += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	}
	switch f.Status {
	case entity.StockStatusOutOfStock:
		query += " AND quantity - reserved_quantity <= 0"
	case entity.StockStatusLowStock:
		query += " AND quantity - reserved_quantity > 0 AND quantity - reserved_quantity <= low_stock_threshold"
	case entity.StockStatusInStock:
		query += " AND quantity - reserved_quantity > low_stock_threshold"
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND product_id ILIKE $%d", len(args))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY quantity LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.list(ctx, query, args...)
}

// ListLowStock: 0 < disponible <= umbral, los más bajos primero.
func (r *StockItemRepo) ListLowStock(ctx context.Context, warehouseID string, limit int) ([]*entity.StockItem, error) {
	return r.List(ctx, repository.StockFilter{
		WarehouseID: warehouseID, Status: entity.StockStatusLowStock, Limit: limit,
	})
}

// ListOutOfStock: disponible <= 0.
func (r *StockItemRepo) ListOutOfStock(ctx context.Context, warehouseID string, limit int) ([]*entity.StockItem, error) {
	return r.List(ctx, repository.StockFilter{
		WarehouseID: warehouseID, Status: entity.StockStatusOutOfStock, Limit: limit,
	})
}

// ListReorder: disponible <= punto de reorden.
func (r *StockItemRepo) ListReorder(ctx context.Context, warehouseID string) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items WHERE quantity - reserved_quantity <= reorder_point`
	args := []any{}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += " AND warehouse_id = $1"
	}
	query += " ORDER BY quantity"
	return r.list(ctx, query, args...)
}

func (r *StockItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		var s entity.StockItem
		if err := rows.Scan(
			&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity,
			&s.LowStockThreshold, &s.ReorderPoint, &s.ReorderQuantity, &s.UnitCost,
			&s.LastRestockedAt, &s.LastSoldAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Statistics agrega los contadores del tablero en una sola consulta.
// El valor total usa el costo promedio conocido; filas sin costo valen cero.
func (r *StockItemRepo) Statistics(ctx context.Context, warehouseID string) (*repository.StockStatistics, error) {
	query := `
		SELECT
			COUNT(*)                                                                              AS total_products,
			COALESCE(SUM(quantity * COALESCE(unit_cost, 0)), 0)                                   AS total_stock_value,
			COUNT(*) FILTER (WHERE quantity - reserved_quantity > low_stock_threshold)            AS in_stock,
			COUNT(*) FILTER (WHERE quantity - reserved_quantity > 0
			                   AND quantity - reserved_quantity <= low_stock_threshold)           AS low_stock,
			COUNT(*) FILTER (WHERE quantity - reserved_quantity <= 0)                             AS out_of_stock
		FROM stock_items`
	args := []any{}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += " WHERE warehouse_id = $1"
	}
	var st repository.StockStatistics
	var value decimal.Decimal
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&st.TotalProducts, &value, &st.InStockCount, &st.LowStockCount, &st.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("stock statistics: %w", err)
	}
	st.TotalStockValue = value
	return &st, nil
}
