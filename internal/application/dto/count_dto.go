package dto

import (
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// CreateCountRequest entrada para crear una sesión de conteo cíclico.
type CreateCountRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	WarehouseID string   `json:"warehouse_id,omitempty"`
	ProductIDs  []string `json:"product_ids,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// CountItemRequest body para registrar la cantidad contada de un ítem.
type CountItemRequest struct {
	CountedQuantity int64  `json:"counted_quantity" validate:"min=0"`
	Notes           string `json:"notes,omitempty"`
}

// CompleteCountRequest body para completar una sesión de conteo.
type CompleteCountRequest struct {
	ApplyAdjustments bool `json:"apply_adjustments"`
}

// CountResponse salida de una sesión de conteo.
type CountResponse struct {
	ID          string     `json:"id"`
	WarehouseID string     `json:"warehouse_id,omitempty"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewCountResponse mapea la entidad a su respuesta.
func NewCountResponse(c *entity.InventoryCount) CountResponse {
	return CountResponse{
		ID:          c.ID,
		WarehouseID: c.WarehouseID,
		Name:        c.Name,
		Status:      c.Status,
		Notes:       c.Notes,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CountItemResponse un ítem de conteo con su varianza calculada.
type CountItemResponse struct {
	ID              string     `json:"id"`
	StockItemID     string     `json:"stock_item_id"`
	SystemQuantity  int64      `json:"system_quantity"`
	CountedQuantity *int64     `json:"counted_quantity,omitempty"`
	Variance        int64      `json:"variance"`
	Notes           string     `json:"notes,omitempty"`
	CountedBy       string     `json:"counted_by,omitempty"`
	CountedAt       *time.Time `json:"counted_at,omitempty"`
}

// NewCountItemResponse mapea la entidad a su respuesta.
func NewCountItemResponse(i *entity.InventoryCountItem) CountItemResponse {
	return CountItemResponse{
		ID:              i.ID,
		StockItemID:     i.StockItemID,
		SystemQuantity:  i.SystemQuantity,
		CountedQuantity: i.CountedQuantity,
		Variance:        i.Variance(),
		Notes:           i.Notes,
		CountedBy:       i.CountedBy,
		CountedAt:       i.CountedAt,
	}
}

// CountDetailResponse sesión con sus ítems.
type CountDetailResponse struct {
	Count CountResponse       `json:"count"`
	Items []CountItemResponse `json:"items"`
}

// CountListResponse lista paginada de sesiones.
type CountListResponse struct {
	Items []CountResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
