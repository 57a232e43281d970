package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// CountUseCase implementa el conteo cíclico: snapshot de cantidades del
// sistema, registro de cantidades físicas y, al completar, replay de las
// varianzas por el mismo camino bloqueado de ajuste del motor de inventario.
type CountUseCase struct {
	txRunner  TxRunner
	countRepo repository.InventoryCountRepository
	stockRepo repository.StockItemRepository
	log       *logger.Logger
}

// NewCountUseCase construye el caso de uso de conteos.
func NewCountUseCase(
	txRunner TxRunner,
	countRepo repository.InventoryCountRepository,
	stockRepo repository.StockItemRepository,
	log *logger.Logger,
) *CountUseCase {
	return &CountUseCase{txRunner: txRunner, countRepo: countRepo, stockRepo: stockRepo, log: log}
}

// CreateCountInput entrada para crear una sesión de conteo.
type CreateCountInput struct {
	Name        string
	WarehouseID string   // vacío = todas las bodegas
	ProductIDs  []string // vacío = todos los productos del alcance
	Notes       string
	Actor       string
}

// CreateCount crea la sesión en draft y congela system_quantity de cada saldo
// del alcance en sus ítems, todo en una transacción.
func (uc *CountUseCase) CreateCount(ctx context.Context, in CreateCountInput) (*entity.InventoryCount, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	count := &entity.InventoryCount{
		ID:          uuid.New().String(),
		WarehouseID: in.WarehouseID,
		Name:        in.Name,
		Status:      entity.CountStatusDraft,
		Notes:       in.Notes,
		CreatedBy:   in.Actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	wanted := map[string]bool{}
	for _, id := range in.ProductIDs {
		wanted[id] = true
	}

	stocks, err := uc.stockRepo.List(ctx, repository.StockFilter{
		WarehouseID: in.WarehouseID,
		Limit:       10000, // el alcance de un conteo es acotado por bodega
	})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		if err := repos.Counts.Create(ctx, count); err != nil {
			return err
		}
		for _, stock := range stocks {
			if len(wanted) > 0 && !wanted[stock.ProductID] {
				continue
			}
			item := &entity.InventoryCountItem{
				ID:               uuid.New().String(),
				InventoryCountID: count.ID,
				StockItemID:      stock.ID,
				SystemQuantity:   stock.Quantity,
				CreatedAt:        now,
			}
			if err := repos.Counts.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("count_id", count.ID).Str("name", in.Name).Msg("sesión de conteo creada")
	return count, nil
}

// GetCount devuelve la sesión con sus ítems.
func (uc *CountUseCase) GetCount(ctx context.Context, id string) (*entity.InventoryCount, []*entity.InventoryCountItem, error) {
	count, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if count == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.countRepo.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return count, items, nil
}

// StartCount transiciona draft -> in_progress y estampa started_at.
func (uc *CountUseCase) StartCount(ctx context.Context, id string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.Status != entity.CountStatusDraft {
		return nil, domain.NewRuleError(domain.RuleInvalidCountState,
			"el conteo está en %s; solo se inicia desde draft", count.Status)
	}
	now := time.Now()
	count.Status = entity.CountStatusInProgress
	count.StartedAt = &now
	ok, err := uc.countRepo.TransitionStatus(ctx, count, entity.CountStatusDraft)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewRuleError(domain.RuleInvalidCountState,
			"el conteo salió de draft mientras se iniciaba")
	}
	return count, nil
}

// UpdateCountItem registra la cantidad contada físicamente para un ítem,
// mientras la sesión no esté en estado terminal.
func (uc *CountUseCase) UpdateCountItem(ctx context.Context, itemID string, countedQuantity int64, notes, actor string) (*entity.InventoryCountItem, error) {
	if countedQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.countRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.countRepo.GetByID(ctx, item.InventoryCountID)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.IsTerminal() {
		return nil, domain.NewRuleError(domain.RuleInvalidCountState,
			"el conteo está en %s; ya no admite conteos", count.Status)
	}
	now := time.Now()
	item.CountedQuantity = &countedQuantity
	item.Notes = notes
	item.CountedBy = actor
	item.CountedAt = &now
	if err := uc.countRepo.UpdateItemCount(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CompleteCount transiciona in_progress -> completed. Con applyAdjustments,
// cada ítem con varianza distinta de cero se ajusta por el camino bloqueado
// estándar (fila del libro con razón adjustment incluida); sin él, la sesión
// se completa sin tocar ningún saldo (modo solo-conteo).
func (uc *CountUseCase) CompleteCount(ctx context.Context, id string, applyAdjustments bool, actor string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.Status != entity.CountStatusInProgress {
		return nil, domain.NewRuleError(domain.RuleInvalidCountState,
			"el conteo está en %s; solo se completa desde in_progress", count.Status)
	}
	items, err := uc.countRepo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	adjusted := 0
	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		if applyAdjustments {
			for _, item := range items {
				if item.CountedQuantity == nil || item.Variance() == 0 {
					continue
				}
				stock, err := repos.Stock.GetByID(ctx, item.StockItemID)
				if err != nil {
					return err
				}
				if stock == nil {
					return domain.ErrNotFound
				}
				locked, err := lockStock(ctx, repos, stock.ProductID, stock.WarehouseID)
				if err != nil {
					return err
				}
				notes := fmt.Sprintf("Conteo de inventario: %s", count.Name)
				if err := applyAdjust(ctx, repos, locked, *item.CountedQuantity,
					entity.MovementReasonAdjustment, notes, actor, now); err != nil {
					return err
				}
				adjusted++
			}
		}
		count.Status = entity.CountStatusCompleted
		count.CompletedAt = &now
		// Transición condicional dentro de la tx: si otro caller completó o
		// canceló la sesión entre la lectura y aquí, los ajustes se revierten.
		ok, err := repos.Counts.TransitionStatus(ctx, count, entity.CountStatusInProgress)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewRuleError(domain.RuleInvalidCountState,
				"el conteo salió de in_progress mientras se completaba")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("count_id", id).Bool("apply_adjustments", applyAdjustments).
		Int("adjusted_items", adjusted).Msg("sesión de conteo completada")
	return count, nil
}

// CancelCount transiciona draft|in_progress -> cancelled.
func (uc *CountUseCase) CancelCount(ctx context.Context, id string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.IsTerminal() {
		return nil, domain.NewRuleError(domain.RuleInvalidCountState,
			"el conteo está en %s; los estados terminales no transicionan", count.Status)
	}
	from := count.Status
	count.Status = entity.CountStatusCancelled
	ok, err := uc.countRepo.TransitionStatus(ctx, count, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewRuleError(domain.RuleInvalidCountState,
			"el conteo cambió de estado mientras se cancelaba")
	}
	return count, nil
}

// ListCounts lista sesiones, recientes primero.
func (uc *CountUseCase) ListCounts(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryCount, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.countRepo.List(ctx, warehouseID, limit, offset)
}
