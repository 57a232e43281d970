package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

func newCountUC(env *testEnv) *inventory.CountUseCase {
	runner := &fakeTxRunner{repos: inventory.TxRepos{
		Stock:     env.stocks,
		Movements: env.movements,
		Alerts:    env.alerts,
		Counts:    env.counts,
	}}
	return inventory.NewCountUseCase(runner, env.counts, env.stocks, logger.Nop())
}

func TestCreateCount_CongelaCantidadesDelSistema(t *testing.T) {
	env := newTestEnv()
	env.seed(prodA, whMain, 100, 0)
	env.seed("prod-b", whMain, 40, 0)
	uc := newCountUC(env)

	count, err := uc.CreateCount(context.Background(), inventory.CreateCountInput{
		Name:        "Conteo mensual",
		WarehouseID: whMain,
		Actor:       "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusDraft, count.Status)

	_, items, err := uc.GetCount(context.Background(), count.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Nil(t, item.CountedQuantity, "nadie ha contado aún")
		assert.Contains(t, []int64{100, 40}, item.SystemQuantity)
	}
}

func TestCreateCount_SubconjuntoDeProductos(t *testing.T) {
	env := newTestEnv()
	env.seed(prodA, whMain, 100, 0)
	env.seed("prod-b", whMain, 40, 0)
	uc := newCountUC(env)

	count, err := uc.CreateCount(context.Background(), inventory.CreateCountInput{
		Name:       "Conteo parcial",
		ProductIDs: []string{prodA},
	})
	require.NoError(t, err)

	_, items, err := uc.GetCount(context.Background(), count.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(100), items[0].SystemQuantity)
}

func TestCount_MaquinaDeEstados(t *testing.T) {
	env := newTestEnv()
	env.seed(prodA, whMain, 100, 0)
	uc := newCountUC(env)
	ctx := context.Background()

	count, err := uc.CreateCount(ctx, inventory.CreateCountInput{Name: "Conteo"})
	require.NoError(t, err)

	// No se completa desde draft.
	_, err = uc.CompleteCount(ctx, count.ID, false, "u")
	require.Error(t, err)
	assert.True(t, domain.IsRule(err, domain.RuleInvalidCountState))

	started, err := uc.StartCount(ctx, count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusInProgress, started.Status)
	assert.NotNil(t, started.StartedAt)

	// No se inicia dos veces.
	_, err = uc.StartCount(ctx, count.ID)
	assert.True(t, domain.IsRule(err, domain.RuleInvalidCountState))

	completed, err := uc.CompleteCount(ctx, count.ID, false, "u")
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Los estados terminales no transicionan.
	_, err = uc.CancelCount(ctx, count.ID)
	assert.True(t, domain.IsRule(err, domain.RuleInvalidCountState))
	_, err = uc.CompleteCount(ctx, count.ID, false, "u")
	assert.True(t, domain.IsRule(err, domain.RuleInvalidCountState))
}

func TestUpdateCountItem_RegistraContadoYRechazaTerminales(t *testing.T) {
	env := newTestEnv()
	env.seed(prodA, whMain, 100, 0)
	uc := newCountUC(env)
	ctx := context.Background()

	count, err := uc.CreateCount(ctx, inventory.CreateCountInput{Name: "Conteo"})
	require.NoError(t, err)
	_, items, err := uc.GetCount(ctx, count.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item, err := uc.UpdateCountItem(ctx, items[0].ID, 93, "faltan 7", "user-2")
	require.NoError(t, err)
	require.NotNil(t, item.CountedQuantity)
	assert.Equal(t, int64(93), *item.CountedQuantity)
	assert.Equal(t, int64(-7), item.Variance())
	assert.Equal(t, "user-2", item.CountedBy)
	assert.NotNil(t, item.CountedAt)

	_, err = uc.CancelCount(ctx, count.ID)
	require.NoError(t, err)
	_, err = uc.UpdateCountItem(ctx, items[0].ID, 95, "", "user-2")
	assert.True(t, domain.IsRule(err, domain.RuleInvalidCountState),
		"una sesión cancelada ya no admite conteos")
}

func TestCompleteCount_AplicaVarianzasPorElCaminoDeAjuste(t *testing.T) {
	env := newTestEnv()
	stockA := env.seed(prodA, whMain, 100, 0)
	stockB := env.seed("prod-b", whMain, 40, 0)
	uc := newCountUC(env)
	ctx := context.Background()

	count, err := uc.CreateCount(ctx, inventory.CreateCountInput{Name: "Conteo", Actor: "user-1"})
	require.NoError(t, err)
	_, items, err := uc.GetCount(ctx, count.ID)
	require.NoError(t, err)

	for _, item := range items {
		switch item.StockItemID {
		case stockA.ID:
			_, err = uc.UpdateCountItem(ctx, item.ID, 93, "", "user-1") // varianza -7
		case stockB.ID:
			_, err = uc.UpdateCountItem(ctx, item.ID, 40, "", "user-1") // varianza 0
		}
		require.NoError(t, err)
	}

	_, err = uc.StartCount(ctx, count.ID)
	require.NoError(t, err)
	_, err = uc.CompleteCount(ctx, count.ID, true, "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(93), stockA.Quantity, "la varianza se aplicó como ajuste")
	assert.Equal(t, int64(40), stockB.Quantity, "varianza cero no toca el saldo")

	adjusts := env.movements.byType(entity.MovementTypeAdjustment)
	require.Len(t, adjusts, 1, "solo los ítems con varianza escriben en el libro")
	assert.Equal(t, int64(-7), adjusts[0].QuantityChange)
	assert.Equal(t, entity.MovementReasonAdjustment, adjusts[0].Reason)
	assert.Contains(t, adjusts[0].Notes, "Conteo")
}

func TestCompleteCount_SinAjustesNoTocaSaldos(t *testing.T) {
	env := newTestEnv()
	stock := env.seed(prodA, whMain, 100, 0)
	uc := newCountUC(env)
	ctx := context.Background()

	count, err := uc.CreateCount(ctx, inventory.CreateCountInput{Name: "Conteo"})
	require.NoError(t, err)
	_, items, err := uc.GetCount(ctx, count.ID)
	require.NoError(t, err)
	_, err = uc.UpdateCountItem(ctx, items[0].ID, 90, "", "u")
	require.NoError(t, err)

	_, err = uc.StartCount(ctx, count.ID)
	require.NoError(t, err)
	_, err = uc.CompleteCount(ctx, count.ID, false, "u")
	require.NoError(t, err)

	assert.Equal(t, int64(100), stock.Quantity, "modo solo-conteo")
	assert.Empty(t, env.movements.byType(entity.MovementTypeAdjustment))
}

func TestCreateCount_SinNombreEsInvalido(t *testing.T) {
	env := newTestEnv()
	uc := newCountUC(env)
	_, err := uc.CreateCount(context.Background(), inventory.CreateCountInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// staleCountRepo devuelve lecturas desactualizadas del estado de la sesión,
// simulando otro caller que ya transicionó entre la lectura y la escritura.
type staleCountRepo struct {
	*fakeCountRepo
	staleStatus string
}

func (r *staleCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	count, err := r.fakeCountRepo.GetByID(ctx, id)
	if count == nil || err != nil {
		return count, err
	}
	cp := *count
	cp.Status = r.staleStatus
	return &cp, nil
}

func TestCompleteCount_PierdeLaCarreraContraOtraTransicion(t *testing.T) {
	env := newTestEnv()
	stock := env.seed(prodA, whMain, 100, 0)
	uc := newCountUC(env)
	ctx := context.Background()

	count, err := uc.CreateCount(ctx, inventory.CreateCountInput{Name: "Conteo", WarehouseID: whMain})
	require.NoError(t, err)
	_, err = uc.StartCount(ctx, count.ID)
	require.NoError(t, err)
	_, err = uc.CompleteCount(ctx, count.ID, false, "user-b")
	require.NoError(t, err)

	// Este caller leyó in_progress antes de que user-b completara: la escritura
	// condicional debe rechazar la segunda completación, no duplicarla.
	stale := &staleCountRepo{fakeCountRepo: env.counts, staleStatus: entity.CountStatusInProgress}
	runner := &fakeTxRunner{repos: inventory.TxRepos{
		Stock:     env.stocks,
		Movements: env.movements,
		Alerts:    env.alerts,
		Counts:    env.counts,
	}}
	racer := inventory.NewCountUseCase(runner, stale, env.stocks, logger.Nop())

	_, err = racer.CompleteCount(ctx, count.ID, true, "user-a")
	require.Error(t, err)
	assert.True(t, domain.IsRule(err, domain.RuleInvalidCountState))
	assert.Equal(t, int64(100), stock.Quantity, "el perdedor no toca saldos")
}
