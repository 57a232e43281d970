package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// InventoryCountRepo implementación de InventoryCountRepository sobre PostgreSQL.
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador de conteos. Pasar pool o tx (Querier).
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

// Create persiste una sesión de conteo.
func (r *InventoryCountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_counts (id, warehouse_id, name, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	warehouseID := (*string)(nil)
	if c.WarehouseID != "" {
		warehouseID = &c.WarehouseID
	}
	_, err := r.q.Exec(ctx, query,
		c.ID, warehouseID, c.Name, c.Status, c.Notes, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory count: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID (nil si no existe).
func (r *InventoryCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	query := `
		SELECT id, warehouse_id, name, status, notes, started_at, completed_at, created_by, created_at, updated_at
		FROM inventory_counts WHERE id = $1`
	var c entity.InventoryCount
	var warehouseID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &warehouseID, &c.Name, &c.Status, &c.Notes,
		&c.StartedAt, &c.CompletedAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}
	if warehouseID != nil {
		c.WarehouseID = *warehouseID
	}
	return &c, nil
}

// TransitionStatus persiste estado y timestamps solo si la sesión sigue en
// fromStatus. Cero filas afectadas significa que otra transición ganó la carrera.
func (r *InventoryCountRepo) TransitionStatus(ctx context.Context, c *entity.InventoryCount, fromStatus string) (bool, error) {
	query := `
		UPDATE inventory_counts
		SET status = $2, started_at = $3, completed_at = $4, updated_at = now()
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Status, c.StartedAt, c.CompletedAt, fromStatus)
	if err != nil {
		return false, fmt.Errorf("transition inventory count: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista sesiones, recientes primero, opcionalmente por bodega.
func (r *InventoryCountRepo) List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryCount, error) {
	query := `
		SELECT id, warehouse_id, name, status, notes, started_at, completed_at, created_by, created_at, updated_at
		FROM inventory_counts`
	args := []any{}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += " WHERE warehouse_id = $1"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCount
	for rows.Next() {
		var c entity.InventoryCount
		var wID *string
		if err := rows.Scan(
			&c.ID, &wID, &c.Name, &c.Status, &c.Notes,
			&c.StartedAt, &c.CompletedAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		if wID != nil {
			c.WarehouseID = *wID
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CreateItem persiste un ítem de conteo con su snapshot de cantidad del sistema.
func (r *InventoryCountRepo) CreateItem(ctx context.Context, i *entity.InventoryCountItem) error {
	query := `
		INSERT INTO inventory_count_items (id, inventory_count_id, stock_item_id, system_quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.InventoryCountID, i.StockItemID, i.SystemQuantity, i.Notes, i.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert count item: %w", err)
	}
	return nil
}

// GetItemByID obtiene un ítem de conteo por ID (nil si no existe).
func (r *InventoryCountRepo) GetItemByID(ctx context.Context, id string) (*entity.InventoryCountItem, error) {
	query := `
		SELECT id, inventory_count_id, stock_item_id, system_quantity, counted_quantity, notes, counted_by, counted_at, created_at
		FROM inventory_count_items WHERE id = $1`
	var i entity.InventoryCountItem
	var countedBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.InventoryCountID, &i.StockItemID, &i.SystemQuantity,
		&i.CountedQuantity, &i.Notes, &countedBy, &i.CountedAt, &i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count item: %w", err)
	}
	if countedBy != nil {
		i.CountedBy = *countedBy
	}
	return &i, nil
}

// UpdateItemCount registra la cantidad contada, quién y cuándo.
func (r *InventoryCountRepo) UpdateItemCount(ctx context.Context, i *entity.InventoryCountItem) error {
	query := `
		UPDATE inventory_count_items
		SET counted_quantity = $2, notes = $3, counted_by = $4, counted_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, i.ID, i.CountedQuantity, i.Notes, i.CountedBy, i.CountedAt)
	if err != nil {
		return fmt.Errorf("update count item: %w", err)
	}
	return nil
}

// ListItems lista los ítems de una sesión de conteo.
func (r *InventoryCountRepo) ListItems(ctx context.Context, countID string) ([]*entity.InventoryCountItem, error) {
	query := `
		SELECT id, inventory_count_id, stock_item_id, system_quantity, counted_quantity, notes, counted_by, counted_at, created_at
		FROM inventory_count_items WHERE inventory_count_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, countID)
	if err != nil {
		return nil, fmt.Errorf("list count items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCountItem
	for rows.Next() {
		var i entity.InventoryCountItem
		var countedBy *string
		if err := rows.Scan(
			&i.ID, &i.InventoryCountID, &i.StockItemID, &i.SystemQuantity,
			&i.CountedQuantity, &i.Notes, &countedBy, &i.CountedAt, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan count item: %w", err)
		}
		if countedBy != nil {
			i.CountedBy = *countedBy
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
