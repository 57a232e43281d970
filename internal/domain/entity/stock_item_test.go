package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

func TestStockItem_DisponibleYEstado(t *testing.T) {
	cases := []struct {
		name      string
		qty       int64
		reserved  int64
		threshold int64
		available int64
		status    string
	}{
		{"con stock", 100, 20, 10, 80, entity.StockStatusInStock},
		{"en el umbral", 12, 2, 10, 10, entity.StockStatusLowStock},
		{"todo reservado", 10, 10, 10, 0, entity.StockStatusOutOfStock},
		{"reservado mayor que cantidad", 5, 8, 10, 0, entity.StockStatusOutOfStock},
		{"cantidad negativa", -3, 0, 10, 0, entity.StockStatusOutOfStock},
		{"justo encima del umbral", 15, 4, 10, 11, entity.StockStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &entity.StockItem{
				Quantity:          tc.qty,
				ReservedQuantity:  tc.reserved,
				LowStockThreshold: tc.threshold,
			}
			assert.Equal(t, tc.available, s.Available(), "disponible nunca negativo")
			assert.Equal(t, tc.status, s.Status())
		})
	}
}

func TestStockItem_NeedsReorder(t *testing.T) {
	s := &entity.StockItem{Quantity: 6, ReservedQuantity: 1, ReorderPoint: 5}
	assert.True(t, s.NeedsReorder(), "disponible 5 <= punto de reorden 5")

	s.Quantity = 7
	assert.False(t, s.NeedsReorder())
}

func TestStockItem_StockValue(t *testing.T) {
	s := &entity.StockItem{Quantity: 40}
	assert.True(t, s.StockValue().IsZero(), "sin costo conocido el valor es cero")

	s.UnitCost = decimal.NewNullDecimal(decimal.NewFromFloat(2.5))
	assert.True(t, s.StockValue().Equal(decimal.NewFromInt(100)))
}
