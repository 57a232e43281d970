package inventory_test

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Dobles en memoria de los puertos de persistencia. Replican la semántica que
// importa a las transiciones (get-or-create, clamp de alertas abiertas, suma
// del libro sin reserve/release) sin base de datos.

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

type fakeStockRepo struct {
	byKey map[string]*entity.StockItem
	byID  map[string]*entity.StockItem
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		byKey: map[string]*entity.StockItem{},
		byID:  map[string]*entity.StockItem{},
	}
}

func (r *fakeStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	return r.byKey[stockKey(productID, warehouseID)], nil
}

func (r *fakeStockRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	return r.byID[id], nil
}

func (r *fakeStockRepo) GetByProduct(_ context.Context, productID string) (*entity.StockItem, error) {
	for _, s := range r.byKey {
		if s.ProductID == productID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *fakeStockRepo) Create(_ context.Context, item *entity.StockItem) error {
	key := stockKey(item.ProductID, item.WarehouseID)
	if _, ok := r.byKey[key]; ok {
		return nil // ON CONFLICT DO NOTHING
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.byKey[key] = item
	r.byID[item.ID] = item
	return nil
}

func (r *fakeStockRepo) UpdateBalances(_ context.Context, item *entity.StockItem) error {
	return nil // los tests mutan el mismo puntero
}

func (r *fakeStockRepo) UpdateThresholds(_ context.Context, item *entity.StockItem) error {
	return nil
}

func (r *fakeStockRepo) List(_ context.Context, f repository.StockFilter) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, s := range r.byKey {
		if f.WarehouseID != "" && s.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && s.Status() != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(s.ProductID, f.Search) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStockRepo) ListLowStock(_ context.Context, warehouseID string, _ int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, s := range r.byKey {
		if warehouseID != "" && s.WarehouseID != warehouseID {
			continue
		}
		if s.IsLowStock() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListOutOfStock(_ context.Context, warehouseID string, _ int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, s := range r.byKey {
		if warehouseID != "" && s.WarehouseID != warehouseID {
			continue
		}
		if s.IsOutOfStock() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListReorder(_ context.Context, warehouseID string) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, s := range r.byKey {
		if warehouseID != "" && s.WarehouseID != warehouseID {
			continue
		}
		if s.NeedsReorder() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) Statistics(_ context.Context, warehouseID string) (*repository.StockStatistics, error) {
	stats := &repository.StockStatistics{TotalStockValue: decimal.Zero}
	for _, s := range r.byKey {
		if warehouseID != "" && s.WarehouseID != warehouseID {
			continue
		}
		stats.TotalProducts++
		stats.TotalStockValue = stats.TotalStockValue.Add(s.StockValue())
		switch s.Status() {
		case entity.StockStatusInStock:
			stats.InStockCount++
		case entity.StockStatusLowStock:
			stats.LowStockCount++
		case entity.StockStatusOutOfStock:
			stats.OutOfStockCount++
		}
	}
	return stats, nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if f.Reason != "" && m.Reason != f.Reason {
			continue
		}
		if f.Reference != "" && !strings.Contains(strings.ToLower(m.Reference), strings.ToLower(f.Reference)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// SumChangesByStockItem replica la conciliación real: reserve/release no
// cambian la cantidad en bodega y quedan fuera de la suma.
func (r *fakeMovementRepo) SumChangesByStockItem(_ context.Context, stockItemID string) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.StockItemID != stockItemID {
			continue
		}
		if m.MovementType == entity.MovementTypeReserve || m.MovementType == entity.MovementTypeRelease {
			continue
		}
		sum += m.QuantityChange
	}
	return sum, nil
}

func (r *fakeMovementRepo) TodayStats(_ context.Context, _ string) (*repository.MovementTodayStats, error) {
	stats := &repository.MovementTodayStats{}
	for _, m := range r.movements {
		stats.MovementsToday++
		if m.Reason == entity.MovementReasonSale {
			stats.ItemsSoldToday += -m.QuantityChange
		}
		if m.Reason == entity.MovementReasonPurchase {
			stats.ItemsReceivedToday += m.QuantityChange
		}
	}
	return stats, nil
}

func (r *fakeMovementRepo) SummaryByReason(_ context.Context, _ int, _ string) ([]repository.MovementSummaryRow, error) {
	byReason := map[string]*repository.MovementSummaryRow{}
	var order []string
	for _, m := range r.movements {
		row, ok := byReason[m.Reason]
		if !ok {
			row = &repository.MovementSummaryRow{Reason: m.Reason}
			byReason[m.Reason] = row
			order = append(order, m.Reason)
		}
		row.Count++
		row.TotalQuantity += m.QuantityChange
	}
	out := make([]repository.MovementSummaryRow, 0, len(order))
	for _, reason := range order {
		out = append(out, *byReason[reason])
	}
	return out, nil
}

// byType devuelve los movimientos de un tipo, en orden de inserción.
func (r *fakeMovementRepo) byType(movementType string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.MovementType == movementType {
			out = append(out, m)
		}
	}
	return out
}

type fakeAlertRepo struct {
	alerts []*entity.StockAlert
}

func (r *fakeAlertRepo) UpsertOpen(_ context.Context, alert *entity.StockAlert) error {
	for _, a := range r.alerts {
		if !a.IsResolved && a.StockItemID == alert.StockItemID && a.AlertType == alert.AlertType {
			a.Threshold = alert.Threshold
			a.CurrentQuantity = alert.CurrentQuantity
			return nil
		}
	}
	cp := *alert
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.alerts = append(r.alerts, &cp)
	return nil
}

func (r *fakeAlertRepo) ResolveOpenForStock(_ context.Context, stockItemID, exceptType, resolvedBy string) error {
	for _, a := range r.alerts {
		if a.IsResolved || a.StockItemID != stockItemID {
			continue
		}
		if exceptType != "" && a.AlertType == exceptType {
			continue
		}
		a.IsResolved = true
		a.ResolvedBy = resolvedBy
	}
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	for _, a := range r.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAlertRepo) Resolve(_ context.Context, id, resolvedBy, notes string) error {
	for _, a := range r.alerts {
		if a.ID == id {
			a.IsResolved = true
			a.ResolvedBy = resolvedBy
			a.Notes = notes
		}
	}
	return nil
}

func (r *fakeAlertRepo) ListPending(_ context.Context, _ string, _ int) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	for _, a := range r.alerts {
		if !a.IsResolved {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) CountPending(ctx context.Context, warehouseID string) (int64, error) {
	pending, _ := r.ListPending(ctx, warehouseID, 0)
	return int64(len(pending)), nil
}

// open devuelve las alertas abiertas de un saldo.
func (r *fakeAlertRepo) open(stockItemID string) []*entity.StockAlert {
	var out []*entity.StockAlert
	for _, a := range r.alerts {
		if !a.IsResolved && a.StockItemID == stockItemID {
			out = append(out, a)
		}
	}
	return out
}

type fakeCountRepo struct {
	counts map[string]*entity.InventoryCount
	items  map[string]*entity.InventoryCountItem
}

func newFakeCountRepo() *fakeCountRepo {
	return &fakeCountRepo{
		counts: map[string]*entity.InventoryCount{},
		items:  map[string]*entity.InventoryCountItem{},
	}
}

func (r *fakeCountRepo) Create(_ context.Context, count *entity.InventoryCount) error {
	cp := *count
	r.counts[count.ID] = &cp
	return nil
}

func (r *fakeCountRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	c, ok := r.counts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCountRepo) TransitionStatus(_ context.Context, count *entity.InventoryCount, fromStatus string) (bool, error) {
	current, ok := r.counts[count.ID]
	if !ok || current.Status != fromStatus {
		return false, nil
	}
	cp := *count
	r.counts[count.ID] = &cp
	return true, nil
}

func (r *fakeCountRepo) List(_ context.Context, warehouseID string, _, _ int) ([]*entity.InventoryCount, error) {
	var out []*entity.InventoryCount
	for _, c := range r.counts {
		if warehouseID != "" && c.WarehouseID != warehouseID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCountRepo) CreateItem(_ context.Context, item *entity.InventoryCountItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeCountRepo) GetItemByID(_ context.Context, id string) (*entity.InventoryCountItem, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (r *fakeCountRepo) UpdateItemCount(_ context.Context, item *entity.InventoryCountItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeCountRepo) ListItems(_ context.Context, countID string) ([]*entity.InventoryCountItem, error) {
	var out []*entity.InventoryCountItem
	for _, i := range r.items {
		if i.InventoryCountID == countID {
			out = append(out, i)
		}
	}
	return out, nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
	hasStock   map[string]bool
}

func newFakeWarehouseRepo(warehouses ...*entity.Warehouse) *fakeWarehouseRepo {
	r := &fakeWarehouseRepo{
		warehouses: map[string]*entity.Warehouse{},
		hasStock:   map[string]bool{},
	}
	for _, w := range warehouses {
		r.warehouses[w.ID] = w
	}
	return r
}

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *fakeWarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.Code == code {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) GetDefault(_ context.Context) (*entity.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.IsDefault {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (r *fakeWarehouseRepo) UnsetDefaultExcept(_ context.Context, id string) error {
	for _, w := range r.warehouses {
		if w.ID != id {
			w.IsDefault = false
		}
	}
	return nil
}

func (r *fakeWarehouseRepo) HasStockItems(_ context.Context, id string) (bool, error) {
	return r.hasStock[id], nil
}

func (r *fakeWarehouseRepo) Delete(_ context.Context, id string) error {
	delete(r.warehouses, id)
	return nil
}

// fakeTxRunner pasa los repos directamente: sin transacción real, los efectos
// son inmediatos, que es justo lo que los tests quieren observar.
type fakeTxRunner struct {
	repos inventory.TxRepos
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repos inventory.TxRepos) error) error {
	return fn(r.repos)
}

type fakeCatalog struct {
	missing   map[string]bool
	price     decimal.Decimal
	soldCalls []int64
	soldErr   error
}

func (c *fakeCatalog) ProductExists(_ context.Context, productID string) (bool, error) {
	return !c.missing[productID], nil
}

func (c *fakeCatalog) CurrentPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	return c.price, nil
}

func (c *fakeCatalog) IncrementSoldCount(_ context.Context, _ string, quantity int64) error {
	c.soldCalls = append(c.soldCalls, quantity)
	return c.soldErr
}
