package dto

import (
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=200"`
	Code               string `json:"code" validate:"required,min=1,max=20"`
	Address            string `json:"address,omitempty"`
	IsDefault          bool   `json:"is_default,omitempty"`
	AllowNegativeStock bool   `json:"allow_negative_stock,omitempty"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega. Campos nulos no
// se tocan.
type UpdateWarehouseRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address            *string `json:"address"`
	IsActive           *bool   `json:"is_active"`
	IsDefault          *bool   `json:"is_default"`
	AllowNegativeStock *bool   `json:"allow_negative_stock"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Code               string    `json:"code"`
	Address            string    `json:"address,omitempty"`
	IsActive           bool      `json:"is_active"`
	IsDefault          bool      `json:"is_default"`
	AllowNegativeStock bool      `json:"allow_negative_stock"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewWarehouseResponse mapea la entidad a su respuesta.
func NewWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:                 w.ID,
		Name:               w.Name,
		Code:               w.Code,
		Address:            w.Address,
		IsActive:           w.IsActive,
		IsDefault:          w.IsDefault,
		AllowNegativeStock: w.AllowNegativeStock,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

// WarehouseListResponse lista de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
