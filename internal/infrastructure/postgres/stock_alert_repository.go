package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

const alertColumns = `id, stock_item_id, alert_type, threshold, current_quantity,
	is_resolved, resolved_at, resolved_by, notes, created_at, updated_at`

// StockAlertRepo implementación de StockAlertRepository sobre PostgreSQL.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

// UpsertOpen inserta o refresca la alerta abierta del (saldo, tipo).
// El conflicto apunta al índice único parcial WHERE NOT is_resolved: nunca
// habrá dos alertas abiertas del mismo tipo para el mismo saldo.
func (r *StockAlertRepo) UpsertOpen(ctx context.Context, a *entity.StockAlert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_alerts (id, stock_item_id, alert_type, threshold, current_quantity,
			is_resolved, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, now(), now())
		ON CONFLICT (stock_item_id, alert_type) WHERE NOT is_resolved
		DO UPDATE SET threshold = EXCLUDED.threshold,
		              current_quantity = EXCLUDED.current_quantity,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.StockItemID, a.AlertType, a.Threshold, a.CurrentQuantity, a.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert stock alert: %w", err)
	}
	return nil
}

// ResolveOpenForStock resuelve las alertas abiertas del saldo, excepto exceptType (vacío = todas).
func (r *StockAlertRepo) ResolveOpenForStock(ctx context.Context, stockItemID, exceptType, resolvedBy string) error {
	query := `
		UPDATE stock_alerts
		SET is_resolved = TRUE, resolved_at = now(), resolved_by = $2, updated_at = now()
		WHERE stock_item_id = $1 AND NOT is_resolved`
	args := []any{stockItemID, resolvedBy}
	if exceptType != "" {
		args = append(args, exceptType)
		query += " AND alert_type <> $3"
	}
	_, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("resolve open alerts: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID (nil si no existe).
func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	var a entity.StockAlert
	var resolvedBy *string
	err := r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE id = $1`, id).Scan(
		&a.ID, &a.StockItemID, &a.AlertType, &a.Threshold, &a.CurrentQuantity,
		&a.IsResolved, &a.ResolvedAt, &resolvedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock alert: %w", err)
	}
	if resolvedBy != nil {
		a.ResolvedBy = *resolvedBy
	}
	return &a, nil
}

// Resolve marca resuelta una alerta puntual con identidad del operador y notas.
func (r *StockAlertRepo) Resolve(ctx context.Context, id, resolvedBy, notes string) error {
	query := `
		UPDATE stock_alerts
		SET is_resolved = TRUE, resolved_at = now(), resolved_by = $2,
		    notes = CASE WHEN $3 <> '' THEN $3 ELSE notes END, updated_at = now()
		WHERE id = $1 AND NOT is_resolved`
	_, err := r.q.Exec(ctx, query, id, resolvedBy, notes)
	if err != nil {
		return fmt.Errorf("resolve stock alert: %w", err)
	}
	return nil
}

// ListPending lista alertas abiertas, opcionalmente por bodega, recientes primero.
func (r *StockAlertRepo) ListPending(ctx context.Context, warehouseID string, limit int) ([]*entity.StockAlert, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT a.id, a.stock_item_id, a.alert_type, a.threshold, a.current_quantity,
		       a.is_resolved, a.resolved_at, a.resolved_by, a.notes, a.created_at, a.updated_at
		FROM stock_alerts a
		JOIN stock_items s ON s.id = a.stock_item_id
		WHERE NOT a.is_resolved`
	args := []any{}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += fmt.Sprintf(" AND s.warehouse_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		var resolvedBy *string
		if err := rows.Scan(
			&a.ID, &a.StockItemID, &a.AlertType, &a.Threshold, &a.CurrentQuantity,
			&a.IsResolved, &a.ResolvedAt, &resolvedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		if resolvedBy != nil {
			a.ResolvedBy = *resolvedBy
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CountPending cuenta alertas abiertas, opcionalmente por bodega.
func (r *StockAlertRepo) CountPending(ctx context.Context, warehouseID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM stock_alerts a
		JOIN stock_items s ON s.id = a.stock_item_id
		WHERE NOT a.is_resolved`
	args := []any{}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += " AND s.warehouse_id = $1"
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending alerts: %w", err)
	}
	return n, nil
}
