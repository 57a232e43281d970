package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// AddStockRequest body para POST /api/stock/{productId}/add.
type AddStockRequest struct {
	WarehouseID string           `json:"warehouse_id,omitempty"`
	Quantity    int64            `json:"quantity" validate:"required,gt=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// AdjustStockRequest body para POST /api/stock/{productId}/adjust. Fija la
// cantidad a un valor absoluto; el delta queda en el libro de movimientos.
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id,omitempty"`
	NewQuantity int64  `json:"new_quantity" validate:"min=0"`
	Reason      string `json:"reason,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ReturnStockRequest body para POST /api/stock/{productId}/return.
type ReturnStockRequest struct {
	WarehouseID string `json:"warehouse_id,omitempty"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	Reference   string `json:"reference,omitempty"`
}

// DamageStockRequest body para POST /api/stock/{productId}/damage.
type DamageStockRequest struct {
	WarehouseID string `json:"warehouse_id,omitempty"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	Notes       string `json:"notes,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateThresholdsRequest body para PUT /api/stock/{id}/thresholds.
type UpdateThresholdsRequest struct {
	LowStockThreshold int64 `json:"low_stock_threshold" validate:"min=0"`
	ReorderPoint      int64 `json:"reorder_point" validate:"min=0"`
	ReorderQuantity   int64 `json:"reorder_quantity" validate:"min=0"`
}

// StockItemResponse salida de un saldo: cantidades crudas más las derivadas
// (disponible, estado, valor al costo promedio).
type StockItemResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	WarehouseID       string           `json:"warehouse_id"`
	Quantity          int64            `json:"quantity"`
	ReservedQuantity  int64            `json:"reserved_quantity"`
	AvailableQuantity int64            `json:"available_quantity"`
	Status            string           `json:"status"`
	LowStockThreshold int64            `json:"low_stock_threshold"`
	ReorderPoint      int64            `json:"reorder_point"`
	ReorderQuantity   int64            `json:"reorder_quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	StockValue        decimal.Decimal  `json:"stock_value"`
	NeedsReorder      bool             `json:"needs_reorder"`
	LastRestockedAt   *time.Time       `json:"last_restocked_at,omitempty"`
	LastSoldAt        *time.Time       `json:"last_sold_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NewStockItemResponse mapea la entidad a su respuesta.
func NewStockItemResponse(s *entity.StockItem) StockItemResponse {
	resp := StockItemResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		WarehouseID:       s.WarehouseID,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.Available(),
		Status:            s.Status(),
		LowStockThreshold: s.LowStockThreshold,
		ReorderPoint:      s.ReorderPoint,
		ReorderQuantity:   s.ReorderQuantity,
		StockValue:        s.StockValue(),
		NeedsReorder:      s.NeedsReorder(),
		LastRestockedAt:   s.LastRestockedAt,
		LastSoldAt:        s.LastSoldAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.UnitCost.Valid {
		c := s.UnitCost.Decimal
		resp.UnitCost = &c
	}
	return resp
}

// StockListResponse lista paginada de saldos.
type StockListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// AvailabilityResponse salida de GET /api/stock/{productId}/availability.
type AvailabilityResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Available bool   `json:"available"`
}

// MovementResponse una fila del libro de movimientos.
type MovementResponse struct {
	ID             string           `json:"id"`
	StockItemID    string           `json:"stock_item_id"`
	MovementType   string           `json:"movement_type"`
	QuantityChange int64            `json:"quantity_change"`
	QuantityBefore *int64           `json:"quantity_before,omitempty"`
	QuantityAfter  *int64           `json:"quantity_after,omitempty"`
	Reason         string           `json:"reason"`
	Reference      string           `json:"reference,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedBy      string           `json:"created_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewMovementResponse mapea la entidad a su respuesta.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:             m.ID,
		StockItemID:    m.StockItemID,
		MovementType:   m.MovementType,
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		Reference:      m.Reference,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
	if m.UnitCost.Valid {
		c := m.UnitCost.Decimal
		resp.UnitCost = &c
	}
	return resp
}

// MovementListResponse lista paginada del libro.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementSummaryRow agregado por razón dentro de una ventana de días.
type MovementSummaryRow struct {
	Reason     string `json:"reason"`
	Count      int64  `json:"count"`
	TotalUnits int64  `json:"total_units"`
}

// MovementSummaryResponse salida de GET /api/movements/summary.
type MovementSummaryResponse struct {
	Days int                  `json:"days"`
	Rows []MovementSummaryRow `json:"rows"`
}

// AlertResponse una alerta de stock.
type AlertResponse struct {
	ID              string     `json:"id"`
	StockItemID     string     `json:"stock_item_id"`
	AlertType       string     `json:"alert_type"`
	Threshold       int64      `json:"threshold"`
	CurrentQuantity int64      `json:"current_quantity"`
	IsResolved      bool       `json:"is_resolved"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewAlertResponse mapea la entidad a su respuesta.
func NewAlertResponse(a *entity.StockAlert) AlertResponse {
	return AlertResponse{
		ID:              a.ID,
		StockItemID:     a.StockItemID,
		AlertType:       a.AlertType,
		Threshold:       a.Threshold,
		CurrentQuantity: a.CurrentQuantity,
		IsResolved:      a.IsResolved,
		ResolvedBy:      a.ResolvedBy,
		ResolvedAt:      a.ResolvedAt,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
}

// ResolveAlertRequest body para POST /api/alerts/{id}/resolve.
type ResolveAlertRequest struct {
	Notes string `json:"notes,omitempty"`
}

// StatisticsResponse números del tablero de inventario.
type StatisticsResponse struct {
	TotalProducts      int64           `json:"total_products"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	InStockCount       int64           `json:"in_stock_count"`
	LowStockCount      int64           `json:"low_stock_count"`
	OutOfStockCount    int64           `json:"out_of_stock_count"`
	PendingAlerts      int64           `json:"pending_alerts"`
	MovementsToday     int64           `json:"movements_today"`
	ItemsSoldToday     int64           `json:"items_sold_today"`
	ItemsReceivedToday int64           `json:"items_received_today"`
}

// LedgerCheckResponse salida de GET /api/stock/{productId}/ledger-check.
// Consistent indica que la cantidad actual coincide con la suma del libro.
type LedgerCheckResponse struct {
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}
