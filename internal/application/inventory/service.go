package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// Valores por defecto al materializar un saldo nuevo.
const (
	defaultLowStockThreshold = 10
	defaultReorderPoint      = 5
	defaultReorderQuantity   = 50
)

// Service es la fachada de orquestación del motor de inventario: único punto
// de entrada para colocación de órdenes, despacho, devoluciones y tooling
// administrativo. Resuelve entidades, envuelve cada transición en su
// transacción con bloqueo de fila y calcula las vistas agregadas de solo lectura.
type Service struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockItemRepository
	movementRepo  repository.StockMovementRepository
	alertRepo     repository.StockAlertRepository
	catalog       Catalog
	log           *logger.Logger
}

// NewService construye la fachada.
func NewService(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockItemRepository,
	movementRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
	catalog Catalog,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		alertRepo:     alertRepo,
		catalog:       catalog,
		log:           log,
	}
}

// resolveWarehouse devuelve la bodega pedida, o la por defecto si id es vacío.
func (s *Service) resolveWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	var (
		wh  *entity.Warehouse
		err error
	)
	if id != "" {
		wh, err = s.warehouseRepo.GetByID(ctx, id)
	} else {
		wh, err = s.warehouseRepo.GetDefault(ctx)
	}
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	return wh, nil
}

// lockStock bloquea la fila del saldo (FOR UPDATE). Nil mapeado a ErrNotFound.
func lockStock(ctx context.Context, repos TxRepos, productID, warehouseID string) (*entity.StockItem, error) {
	stock, err := repos.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	return stock, nil
}

// lockOrCreateStock bloquea la fila del saldo, creándola con saldos en cero si
// no existía (get-or-create a prueba de carreras: INSERT ON CONFLICT + relectura).
func lockOrCreateStock(ctx context.Context, repos TxRepos, productID, warehouseID string, now time.Time) (*entity.StockItem, error) {
	stock, err := repos.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		return stock, nil
	}
	fresh := &entity.StockItem{
		ID:                uuid.New().String(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		LowStockThreshold: defaultLowStockThreshold,
		ReorderPoint:      defaultReorderPoint,
		ReorderQuantity:   defaultReorderQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repos.Stock.Create(ctx, fresh); err != nil {
		return nil, err
	}
	return lockStock(ctx, repos, productID, warehouseID)
}

// GetStock devuelve el saldo de un producto. Sin bodega explícita resuelve por
// producto (cualquier bodega) y, si no hay fila, ErrNotFound.
func (s *Service) GetStock(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	var (
		stock *entity.StockItem
		err   error
	)
	if warehouseID != "" {
		stock, err = s.stockRepo.Get(ctx, productID, warehouseID)
	} else {
		stock, err = s.stockRepo.GetByProduct(ctx, productID)
	}
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	return stock, nil
}

// CheckAvailability indica si hay al menos quantity unidades disponibles.
// Producto sin saldo cuenta como no disponible, no como error.
func (s *Service) CheckAvailability(ctx context.Context, productID string, quantity int64, warehouseID string) (bool, error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return stock.Available() >= quantity, nil
}

// AddStockInput entrada para AddStock.
type AddStockInput struct {
	ProductID   string
	WarehouseID string // vacío = bodega por defecto
	Quantity    int64
	UnitCost    *decimal.Decimal
	Reference   string
	Notes       string
	Actor       string
}

// AddStock suma unidades a un saldo (creándolo si es la primera entrada) y
// recalcula el costo promedio ponderado. Sin costo conocido ni recibido,
// siembra el costo con el precio vigente del catálogo.
func (s *Service) AddStock(ctx context.Context, in AddStockInput) (*entity.StockItem, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	wh, err := s.resolveWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	exists, err := s.catalog.ProductExists(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	unitCost := in.UnitCost
	if unitCost == nil {
		// Semilla de costo solo si el saldo aún no tiene costo promedio.
		current, err := s.stockRepo.Get(ctx, in.ProductID, wh.ID)
		if err != nil {
			return nil, err
		}
		if current == nil || !current.UnitCost.Valid {
			if price, err := s.catalog.CurrentPrice(ctx, in.ProductID); err == nil && price.IsPositive() {
				unitCost = &price
			}
		}
	}

	now := time.Now()
	var result *entity.StockItem
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		stock, err := lockOrCreateStock(ctx, repos, in.ProductID, wh.ID, now)
		if err != nil {
			return err
		}
		if err := applyAddStock(ctx, repos, stock, in.Quantity, unitCost,
			entity.MovementTypeIn, entity.MovementReasonPurchase, in.Reference, in.Notes, in.Actor, now); err != nil {
			return err
		}
		result = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", in.ProductID).Str("warehouse_id", wh.ID).
		Int64("quantity", in.Quantity).Msg("entrada de stock registrada")
	return result, nil
}

// AdjustStock fija la cantidad de un saldo existente a un valor absoluto.
func (s *Service) AdjustStock(ctx context.Context, productID string, newQuantity int64, reason, notes, warehouseID, actor string) (*entity.StockItem, error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var result *entity.StockItem
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
		if err != nil {
			return err
		}
		if err := applyAdjust(ctx, repos, locked, newQuantity, reason, notes, actor, now); err != nil {
			return err
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", productID).
		Int64("old", stock.Quantity).Int64("new", newQuantity).Msg("stock ajustado")
	return result, nil
}

// Reserve aparta quantity unidades para una orden pendiente. Devuelve false
// sin efectos si no alcanza el disponible (o si el producto no tiene saldo).
// No se expone por HTTP: solo callers internos de confianza.
func (s *Service) Reserve(ctx context.Context, productID string, quantity int64, reference, warehouseID, actor string) (bool, error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	now := time.Now()
	var ok bool
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
		if err != nil {
			return err
		}
		ok, err = applyReserve(ctx, repos, locked, quantity, reference, actor, now)
		return err
	})
	return ok, err
}

// Release libera hasta quantity unidades reservadas y devuelve lo liberado.
// Liberar de más no es error: se recorta al reservado vigente (y se registra en el log).
func (s *Service) Release(ctx context.Context, productID string, quantity int64, reference, warehouseID, actor string) (int64, error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		if err == domain.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	now := time.Now()
	var released int64
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
		if err != nil {
			return err
		}
		released, err = applyRelease(ctx, repos, locked, quantity, reference, actor, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	if released < quantity {
		s.log.Warn().Str("product_id", productID).Str("reference", reference).
			Int64("requested", quantity).Int64("released", released).
			Msg("liberación recortada al reservado vigente")
	}
	return released, nil
}

// ConfirmSale descuenta cantidad y reservado atómicamente y, tras el commit,
// notifica al catálogo las unidades vendidas (nunca dentro del bloqueo).
func (s *Service) ConfirmSale(ctx context.Context, productID string, quantity int64, reference, warehouseID, actor string) error {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return err
	}
	wh, err := s.resolveWarehouse(ctx, stock.WarehouseID)
	if err != nil {
		return err
	}
	now := time.Now()
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
		if err != nil {
			return err
		}
		return applyConfirmSale(ctx, repos, locked, wh.AllowNegativeStock, quantity, reference, actor, now)
	})
	if err != nil {
		return err
	}
	if err := s.catalog.IncrementSoldCount(ctx, productID, quantity); err != nil {
		// La venta ya commiteó; el contador del catálogo se reconcilia aparte.
		s.log.Error().Err(err).Str("product_id", productID).Msg("callback de vendidos al catálogo falló")
	}
	return nil
}

// ProcessReturn reingresa unidades devueltas (variante de entrada con razón return).
func (s *Service) ProcessReturn(ctx context.Context, productID string, quantity int64, reference, warehouseID, actor string) (*entity.StockItem, error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var result *entity.StockItem
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
		if err != nil {
			return err
		}
		if err := applyAddStock(ctx, repos, locked, quantity, nil,
			entity.MovementTypeIn, entity.MovementReasonReturn, reference, "", actor, now); err != nil {
			return err
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", productID).Int64("quantity", quantity).Msg("devolución procesada")
	return result, nil
}

// MarkDamaged descuenta unidades dañadas/perdidas, recortando a lo disponible en bodega.
func (s *Service) MarkDamaged(ctx context.Context, productID string, quantity int64, notes, warehouseID, actor string) (*entity.StockItem, error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var result *entity.StockItem
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
		if err != nil {
			return err
		}
		applied, err := applyDamage(ctx, repos, locked, quantity, notes, actor, now)
		if err != nil {
			return err
		}
		if applied < quantity {
			s.log.Warn().Str("product_id", productID).
				Int64("requested", quantity).Int64("applied", applied).
				Msg("baja por daño recortada a la cantidad en bodega")
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateThresholds fija umbral de stock bajo, punto y cantidad de reorden de
// un saldo. No toca cantidades ni escribe en el libro.
func (s *Service) UpdateThresholds(ctx context.Context, productID, warehouseID string, lowStockThreshold, reorderPoint, reorderQuantity int64) (*entity.StockItem, error) {
	if lowStockThreshold < 0 || reorderPoint < 0 || reorderQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	stock.LowStockThreshold = lowStockThreshold
	stock.ReorderPoint = reorderPoint
	stock.ReorderQuantity = reorderQuantity
	stock.UpdatedAt = time.Now()
	if err := s.stockRepo.UpdateThresholds(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// Transfer traslada unidades entre bodegas: valida disponible en origen,
// bloquea AMBAS filas en orden determinista (warehouse_id ascendente) para
// evitar deadlock entre traslados opuestos concurrentes, y escribe un
// movimiento transfer_out y uno transfer_in en la misma transacción.
func (s *Service) Transfer(ctx context.Context, productID, fromWarehouseID, toWarehouseID string, quantity int64, notes, actor string) (from, to *entity.StockItem, err error) {
	if quantity <= 0 || fromWarehouseID == toWarehouseID {
		return nil, nil, domain.ErrInvalidInput
	}
	if _, err := s.resolveWarehouse(ctx, fromWarehouseID); err != nil {
		return nil, nil, err
	}
	if _, err := s.resolveWarehouse(ctx, toWarehouseID); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	err = s.txRunner.Run(ctx, func(repos TxRepos) error {
		// Orden de bloqueo determinista entre las dos filas.
		first, second := fromWarehouseID, toWarehouseID
		if second < first {
			first, second = second, first
		}
		locked := map[string]*entity.StockItem{}
		for _, whID := range []string{first, second} {
			var stock *entity.StockItem
			var err error
			if whID == fromWarehouseID {
				// El origen debe existir; el destino se materializa si hace falta.
				stock, err = lockStock(ctx, repos, productID, whID)
			} else {
				stock, err = lockOrCreateStock(ctx, repos, productID, whID, now)
			}
			if err != nil {
				return err
			}
			locked[whID] = stock
		}
		source := locked[fromWarehouseID]
		dest := locked[toWarehouseID]
		if quantity > source.Available() {
			return domain.NewRuleError(domain.RuleInsufficientStock,
				"stock insuficiente para traslado: disponible %d, solicitado %d", source.Available(), quantity)
		}
		if err := applyTransferOut(ctx, repos, source, quantity, toWarehouseID, notes, actor, now); err != nil {
			return err
		}
		if err := applyTransferIn(ctx, repos, dest, quantity, fromWarehouseID, notes, actor, now); err != nil {
			return err
		}
		from, to = source, dest
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info().Str("product_id", productID).
		Str("from", fromWarehouseID).Str("to", toWarehouseID).
		Int64("quantity", quantity).Msg("traslado entre bodegas completado")
	return from, to, nil
}

// ── Vistas de solo lectura ───────────────────────────────────────────────────

// ListStock lista saldos filtrados por estado derivado, bodega y búsqueda.
func (s *Service) ListStock(ctx context.Context, filter repository.StockFilter) ([]*entity.StockItem, error) {
	return s.stockRepo.List(ctx, filter)
}

// LowStockItems saldos con 0 < disponible <= umbral.
func (s *Service) LowStockItems(ctx context.Context, warehouseID string, limit int) ([]*entity.StockItem, error) {
	return s.stockRepo.ListLowStock(ctx, warehouseID, limit)
}

// OutOfStockItems saldos sin disponible.
func (s *Service) OutOfStockItems(ctx context.Context, warehouseID string, limit int) ([]*entity.StockItem, error) {
	return s.stockRepo.ListOutOfStock(ctx, warehouseID, limit)
}

// ReorderItems saldos en o bajo su punto de reorden.
func (s *Service) ReorderItems(ctx context.Context, warehouseID string) ([]*entity.StockItem, error) {
	return s.stockRepo.ListReorder(ctx, warehouseID)
}

// Movements consulta el libro con filtros.
func (s *Service) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return s.movementRepo.List(ctx, filter)
}

// MovementSummary agrupa el libro por razón dentro de la ventana de días.
func (s *Service) MovementSummary(ctx context.Context, days int, warehouseID string) ([]repository.MovementSummaryRow, error) {
	return s.movementRepo.SummaryByReason(ctx, days, warehouseID)
}

// PendingAlerts lista alertas abiertas, opcionalmente por bodega.
func (s *Service) PendingAlerts(ctx context.Context, warehouseID string, limit int) ([]*entity.StockAlert, error) {
	return s.alertRepo.ListPending(ctx, warehouseID, limit)
}

// ResolveAlert resuelve una alerta con la identidad del operador.
func (s *Service) ResolveAlert(ctx context.Context, alertID, resolvedBy, notes string) (*entity.StockAlert, error) {
	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.alertRepo.Resolve(ctx, alertID, resolvedBy, notes); err != nil {
		return nil, err
	}
	return s.alertRepo.GetByID(ctx, alertID)
}

// Statistics agregados de tablero calculados bajo demanda.
type Statistics struct {
	TotalProducts      int64
	TotalStockValue    decimal.Decimal
	InStockCount       int64
	LowStockCount      int64
	OutOfStockCount    int64
	PendingAlerts      int64
	MovementsToday     int64
	ItemsSoldToday     int64
	ItemsReceivedToday int64
}

// Statistics compone los números del tablero: saldos, alertas y movimientos del día.
func (s *Service) Statistics(ctx context.Context, warehouseID string) (*Statistics, error) {
	stockStats, err := s.stockRepo.Statistics(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	todayStats, err := s.movementRepo.TodayStats(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	pending, err := s.alertRepo.CountPending(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &Statistics{
		TotalProducts:      stockStats.TotalProducts,
		TotalStockValue:    stockStats.TotalStockValue,
		InStockCount:       stockStats.InStockCount,
		LowStockCount:      stockStats.LowStockCount,
		OutOfStockCount:    stockStats.OutOfStockCount,
		PendingAlerts:      pending,
		MovementsToday:     todayStats.MovementsToday,
		ItemsSoldToday:     todayStats.ItemsSoldToday,
		ItemsReceivedToday: todayStats.ItemsReceivedToday,
	}, nil
}

// CheckLedger contrasta la cantidad actual contra la suma del libro
// (auditoría: deben coincidir para todo saldo).
func (s *Service) CheckLedger(ctx context.Context, productID, warehouseID string) (quantity, ledgerSum int64, err error) {
	stock, err := s.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return 0, 0, err
	}
	sum, err := s.movementRepo.SumChangesByStockItem(ctx, stock.ID)
	if err != nil {
		return 0, 0, err
	}
	return stock.Quantity, sum, nil
}
