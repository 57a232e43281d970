package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: el libro es inmutable.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create apendiza una fila al libro de movimientos.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, stock_item_id, movement_type, quantity_change,
			quantity_before, quantity_after, reason, reference, notes, unit_cost, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StockItemID, m.MovementType, m.QuantityChange,
		m.QuantityBefore, m.QuantityAfter, m.Reason, m.Reference, m.Notes,
		m.UnitCost, createdBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List consulta el libro con filtros opcionales dentro de una ventana de días.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	days := f.Days
	if days <= 0 {
		days = 30
	}
	args := []any{fmt.Sprintf("%d days", days)}
	query := `
		SELECT m.id, m.stock_item_id, m.movement_type, m.quantity_change,
		       m.quantity_before, m.quantity_after, m.reason, m.reference, m.notes,
		       m.unit_cost, m.created_by, m.created_at
		FROM stock_movements m
		JOIN stock_items s ON s.id = m.stock_item_id
		WHERE m.created_at >= now() - $1::interval`
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		query += fmt.Sprintf(" AND s.product_id = $%d", len(args))
	}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		query += fmt.Sprintf(" AND s.warehouse_id = $%d", len(args))
	}
	if f.Reason != "" {
		args = append(args, f.Reason)
		query += fmt.Sprintf(" AND m.reason = $%d", len(args))
	}
	if f.Reference != "" {
		args = append(args, "%"+f.Reference+"%")
		query += fmt.Sprintf(" AND m.reference ILIKE $%d", len(args))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.StockItemID, &m.MovementType, &m.QuantityChange,
			&m.QuantityBefore, &m.QuantityAfter, &m.Reason, &m.Reference, &m.Notes,
			&m.UnitCost, &createdBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumChangesByStockItem suma quantity_change del libro para un saldo.
// Por el invariante del libro debe igualar la cantidad actual del StockItem.
func (r *StockMovementRepo) SumChangesByStockItem(ctx context.Context, stockItemID string) (int64, error) {
	// reserve/release no cambian la cantidad en bodega; se excluyen de la suma.
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_change), 0)
		FROM stock_movements
		WHERE stock_item_id = $1
		  AND movement_type NOT IN ('reserve', 'release')`, stockItemID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movement changes: %w", err)
	}
	return sum, nil
}

// TodayStats contadores del día: movimientos, unidades vendidas y recibidas.
func (r *StockMovementRepo) TodayStats(ctx context.Context, warehouseID string) (*repository.MovementTodayStats, error) {
	query := `
		SELECT
			COUNT(*)                                                                   AS movements_today,
			COALESCE(ABS(SUM(m.quantity_change) FILTER (WHERE m.reason = 'sale')), 0)  AS items_sold,
			COALESCE(SUM(m.quantity_change) FILTER (WHERE m.reason = 'purchase'), 0)   AS items_received
		FROM stock_movements m
		JOIN stock_items s ON s.id = m.stock_item_id
		WHERE m.created_at >= date_trunc('day', now())`
	args := []any{}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += " AND s.warehouse_id = $1"
	}
	var st repository.MovementTodayStats
	err := r.q.QueryRow(ctx, query, args...).Scan(&st.MovementsToday, &st.ItemsSoldToday, &st.ItemsReceivedToday)
	if err != nil {
		return nil, fmt.Errorf("movement today stats: %w", err)
	}
	return &st, nil
}

// SummaryByReason agrupa conteo y cantidad neta por razón dentro de la ventana.
func (r *StockMovementRepo) SummaryByReason(ctx context.Context, days int, warehouseID string) ([]repository.MovementSummaryRow, error) {
	if days <= 0 {
		days = 30
	}
	args := []any{fmt.Sprintf("%d days", days)}
	query := `
		SELECT m.reason, COUNT(*), COALESCE(SUM(m.quantity_change), 0)
		FROM stock_movements m
		JOIN stock_items s ON s.id = m.stock_item_id
		WHERE m.created_at >= now() - $1::interval`
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += fmt.Sprintf(" AND s.warehouse_id = $%d", len(args))
	}
	query += " GROUP BY m.reason ORDER BY m.reason"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("movement summary: %w", err)
	}
	defer rows.Close()
	var out []repository.MovementSummaryRow
	for rows.Next() {
		var row repository.MovementSummaryRow
		if err := rows.Scan(&row.Reason, &row.Count, &row.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan movement summary: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
