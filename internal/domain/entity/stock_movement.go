package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeReserve    = "reserve"
	MovementTypeRelease    = "release"
	MovementTypeAdjustment = "adjustment"
	MovementTypeTransfer   = "transfer"
)

// Razones de movimiento (código legible por máquina en el libro de auditoría).
const (
	MovementReasonPurchase    = "purchase"
	MovementReasonSale        = "sale"
	MovementReasonReturn      = "return"
	MovementReasonAdjustment  = "adjustment"
	MovementReasonReservation = "reservation"
	MovementReasonRelease     = "release"
	MovementReasonDamage      = "damage"
	MovementReasonTransferIn  = "transfer_in"
	MovementReasonTransferOut = "transfer_out"
	MovementReasonInitial     = "initial"
)

// StockMovement es una fila inmutable del libro de movimientos: cada cambio de
// saldo escribe exactamente una (dos en traslados). Nunca se actualiza ni borra.
type StockMovement struct {
	ID             string
	StockItemID    string
	MovementType   string // in, out, reserve, release, adjustment, transfer
	QuantityChange int64  // positivo entrada, negativo salida
	QuantityBefore *int64 // snapshot de Quantity antes/después (nulo en reserve/release)
	QuantityAfter  *int64
	Reason         string
	Reference      string // correlación con orden, PO, devolución, etc.
	Notes          string
	UnitCost       decimal.NullDecimal
	CreatedBy      string // UserID del operador o identificador del flujo interno
	CreatedAt      time.Time
}

// IsIncoming indica si el movimiento suma unidades.
func (m *StockMovement) IsIncoming() bool { return m.QuantityChange > 0 }

// IsOutgoing indica si el movimiento resta unidades.
func (m *StockMovement) IsOutgoing() bool { return m.QuantityChange < 0 }
