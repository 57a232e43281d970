package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD del registro de bodegas. Hace cumplir
// la unicidad del código y que exista a lo sumo una bodega por defecto.
type WarehouseUseCase struct {
	repo     repository.WarehouseRepository
	txRunner inventory.TxRunner
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, txRunner inventory.TxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, txRunner: txRunner}
}

// Create crea una nueva bodega. La primera bodega del sistema queda como
// bodega por defecto aunque no se pida.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewRuleError(domain.RuleDuplicateCode, "ya existe una bodega con código %s", in.Code)
	}

	isDefault := in.IsDefault
	if !isDefault {
		current, err := uc.repo.GetDefault(ctx)
		if err != nil {
			return nil, err
		}
		isDefault = current == nil
	}

	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:                 uuid.New().String(),
		Name:               in.Name,
		Code:               in.Code,
		Address:            in.Address,
		IsActive:           true,
		IsDefault:          isDefault,
		AllowNegativeStock: in.AllowNegativeStock,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	// Degradar a la anterior ANTES de insertar, en la misma transacción: el
	// índice único parcial de is_default prohíbe dos filas marcadas en
	// cualquier instante.
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if warehouse.IsDefault {
			if err := repos.Warehouses.UnsetDefaultExcept(ctx, warehouse.ID); err != nil {
				return err
			}
		}
		if err := repos.Warehouses.Create(ctx, warehouse); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.NewRuleError(domain.RuleDuplicateCode, "ya existe una bodega con código %s", in.Code)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewWarehouseResponse(warehouse)
	return &resp, nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewWarehouseResponse(warehouse)
	return &resp, nil
}

// Update actualiza una bodega. Campos nulos de la petición no se tocan.
// Marcar is_default degrada a la bodega por defecto anterior; desmarcarlo
// directamente no está permitido (siempre debe haber una por defecto).
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	if in.IsActive != nil {
		warehouse.IsActive = *in.IsActive
	}
	if in.AllowNegativeStock != nil {
		warehouse.AllowNegativeStock = *in.AllowNegativeStock
	}
	if in.IsDefault != nil {
		if !*in.IsDefault && warehouse.IsDefault {
			return nil, domain.ErrInvalidInput
		}
		warehouse.IsDefault = *in.IsDefault
	}
	warehouse.UpdatedAt = time.Now()
	// Mismo orden que en Create: degradar primero, luego escribir la promovida.
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if warehouse.IsDefault {
			if err := repos.Warehouses.UnsetDefaultExcept(ctx, warehouse.ID); err != nil {
				return err
			}
		}
		return repos.Warehouses.Update(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewWarehouseResponse(warehouse)
	return &resp, nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, dto.NewWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

// Delete elimina una bodega. Se rechaza si algún saldo la referencia: el
// inventario debe trasladarse primero.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.repo.HasStockItems(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.NewRuleError(domain.RuleWarehouseInUse,
			"la bodega %s tiene saldos de inventario; traslade el stock antes de eliminarla", warehouse.Code)
	}
	return uc.repo.Delete(ctx, id)
}
