package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domaininv "github.com/tu-usuario/stock-ledger/internal/domain/inventory"
)

// Transiciones de saldo del motor de inventario. Todas operan sobre una fila
// de stock_items YA BLOQUEADA (GetForUpdate) dentro de la transacción de
// TxRunner: actualizan el saldo, apendizan la fila del libro y reevalúan
// alertas antes del commit conjunto.

func i64ptr(v int64) *int64 { return &v }

// applyReserve incrementa el reservado si qty <= disponible.
// Devuelve false SIN efectos secundarios si no alcanza: es un resultado
// esperado del camino caliente de reservas, no un error.
func applyReserve(ctx context.Context, repos TxRepos, stock *entity.StockItem, qty int64, reference, actor string, now time.Time) (bool, error) {
	if qty <= 0 {
		return false, domain.ErrInvalidInput
	}
	if qty > stock.Available() {
		return false, nil
	}
	stock.ReservedQuantity += qty
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return false, err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeReserve,
		QuantityChange: -qty,
		Reason:         entity.MovementReasonReservation,
		Reference:      reference,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return false, err
	}
	return true, evaluateAlerts(ctx, repos, stock)
}

// applyRelease libera min(qty, reservado) y devuelve lo liberado (clamp, nunca negativo).
func applyRelease(ctx context.Context, repos TxRepos, stock *entity.StockItem, qty int64, reference, actor string, now time.Time) (int64, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidInput
	}
	released := qty
	if released > stock.ReservedQuantity {
		released = stock.ReservedQuantity
	}
	if released == 0 {
		return 0, nil
	}
	stock.ReservedQuantity -= released
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return 0, err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeRelease,
		QuantityChange: released,
		Reason:         entity.MovementReasonRelease,
		Reference:      reference,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return 0, err
	}
	return released, evaluateAlerts(ctx, repos, stock)
}

// applyConfirmSale descuenta qty de la cantidad y min(qty, reservado) del
// reservado en una sola transición. Si la bodega no tolera stock negativo y
// qty > cantidad, es una violación de regla (sobre-confirmación).
func applyConfirmSale(ctx context.Context, repos TxRepos, stock *entity.StockItem, allowNegative bool, qty int64, reference, actor string, now time.Time) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if !allowNegative && qty > stock.Quantity {
		return domain.NewRuleError(domain.RuleInsufficientStock,
			"stock insuficiente para confirmar venta: cantidad %d, solicitado %d", stock.Quantity, qty)
	}
	before := stock.Quantity
	reservedToDeduct := qty
	if reservedToDeduct > stock.ReservedQuantity {
		reservedToDeduct = stock.ReservedQuantity
	}
	stock.Quantity -= qty
	stock.ReservedQuantity -= reservedToDeduct
	stock.LastSoldAt = &now
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeOut,
		QuantityChange: -qty,
		QuantityBefore: i64ptr(before),
		QuantityAfter:  i64ptr(stock.Quantity),
		Reason:         entity.MovementReasonSale,
		Reference:      reference,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return err
	}
	return evaluateAlerts(ctx, repos, stock)
}

// applyAddStock suma unidades y recalcula el costo promedio ponderado si
// llega costo. reason distingue purchase / return / initial / transfer_in.
func applyAddStock(ctx context.Context, repos TxRepos, stock *entity.StockItem, qty int64, unitCost *decimal.Decimal, movementType, reason, reference, notes, actor string, now time.Time) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	before := stock.Quantity
	if unitCost != nil {
		if stock.UnitCost.Valid && before > 0 {
			stock.UnitCost = decimal.NewNullDecimal(
				domaininv.WeightedAverageCost(before, stock.UnitCost.Decimal, qty, *unitCost))
		} else {
			stock.UnitCost = decimal.NewNullDecimal(*unitCost)
		}
	}
	stock.Quantity += qty
	stock.LastRestockedAt = &now
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   movementType,
		QuantityChange: qty,
		QuantityBefore: i64ptr(before),
		QuantityAfter:  i64ptr(stock.Quantity),
		Reason:         reason,
		Reference:      reference,
		Notes:          notes,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if unitCost != nil {
		mov.UnitCost = decimal.NewNullDecimal(*unitCost)
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return err
	}
	return evaluateAlerts(ctx, repos, stock)
}

// applyAdjust fija la cantidad a un valor absoluto; el libro registra el delta con signo.
func applyAdjust(ctx context.Context, repos TxRepos, stock *entity.StockItem, newQuantity int64, reason, notes, actor string, now time.Time) error {
	before := stock.Quantity
	stock.Quantity = newQuantity
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return err
	}
	if reason == "" {
		reason = entity.MovementReasonAdjustment
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeAdjustment,
		QuantityChange: newQuantity - before,
		QuantityBefore: i64ptr(before),
		QuantityAfter:  i64ptr(newQuantity),
		Reason:         reason,
		Notes:          notes,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return err
	}
	return evaluateAlerts(ctx, repos, stock)
}

// applyDamage descuenta hasta la cantidad en bodega (clamp) con razón damage.
// Devuelve lo realmente descontado; cero si no había nada en bodega.
func applyDamage(ctx context.Context, repos TxRepos, stock *entity.StockItem, qty int64, notes, actor string, now time.Time) (int64, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidInput
	}
	actual := qty
	if actual > stock.Quantity {
		actual = stock.Quantity
	}
	if actual <= 0 {
		return 0, nil
	}
	before := stock.Quantity
	stock.Quantity -= actual
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return 0, err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeOut,
		QuantityChange: -actual,
		QuantityBefore: i64ptr(before),
		QuantityAfter:  i64ptr(stock.Quantity),
		Reason:         entity.MovementReasonDamage,
		Notes:          notes,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return 0, err
	}
	return actual, evaluateAlerts(ctx, repos, stock)
}

// applyTransferOut / applyTransferIn: las dos mitades de un traslado, cada una
// sobre su propia fila bloqueada, en la misma transacción.
func applyTransferOut(ctx context.Context, repos TxRepos, stock *entity.StockItem, qty int64, toWarehouseID, notes, actor string, now time.Time) error {
	before := stock.Quantity
	stock.Quantity -= qty
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeTransfer,
		QuantityChange: -qty,
		QuantityBefore: i64ptr(before),
		QuantityAfter:  i64ptr(stock.Quantity),
		Reason:         entity.MovementReasonTransferOut,
		Reference:      "TO:" + toWarehouseID,
		Notes:          notes,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return err
	}
	return evaluateAlerts(ctx, repos, stock)
}

func applyTransferIn(ctx context.Context, repos TxRepos, stock *entity.StockItem, qty int64, fromWarehouseID, notes, actor string, now time.Time) error {
	before := stock.Quantity
	stock.Quantity += qty
	if err := repos.Stock.UpdateBalances(ctx, stock); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		StockItemID:    stock.ID,
		MovementType:   entity.MovementTypeTransfer,
		QuantityChange: qty,
		QuantityBefore: i64ptr(before),
		QuantityAfter:  i64ptr(stock.Quantity),
		Reason:         entity.MovementReasonTransferIn,
		Reference:      "FROM:" + fromWarehouseID,
		Notes:          notes,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return err
	}
	return evaluateAlerts(ctx, repos, stock)
}

// evaluateAlerts reevalúa el estado de alerta tras cada mutación, en la misma
// transacción: disponible <= 0 abre/refresca out_of_stock; entre 1 y el umbral
// abre/refresca low_stock; por encima resuelve todas. Abrir un tipo resuelve
// el otro: a lo sumo una alerta abierta por saldo.
func evaluateAlerts(ctx context.Context, repos TxRepos, stock *entity.StockItem) error {
	avail := stock.Available()
	switch {
	case avail <= 0:
		alert := &entity.StockAlert{
			StockItemID:     stock.ID,
			AlertType:       entity.AlertTypeOutOfStock,
			Threshold:       0,
			CurrentQuantity: stock.Quantity,
		}
		if err := repos.Alerts.UpsertOpen(ctx, alert); err != nil {
			return err
		}
		return repos.Alerts.ResolveOpenForStock(ctx, stock.ID, entity.AlertTypeOutOfStock, "system")
	case avail <= stock.LowStockThreshold:
		alert := &entity.StockAlert{
			StockItemID:     stock.ID,
			AlertType:       entity.AlertTypeLowStock,
			Threshold:       stock.LowStockThreshold,
			CurrentQuantity: avail,
		}
		if err := repos.Alerts.UpsertOpen(ctx, alert); err != nil {
			return err
		}
		return repos.Alerts.ResolveOpenForStock(ctx, stock.ID, entity.AlertTypeLowStock, "system")
	default:
		return repos.Alerts.ResolveOpenForStock(ctx, stock.ID, "", "system")
	}
}
