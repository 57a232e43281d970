package entity

import "time"

// Estados de un conteo cíclico. Máquina de estados:
// draft -> in_progress -> {completed | cancelled}; los terminales no transicionan.
const (
	CountStatusDraft      = "draft"
	CountStatusInProgress = "in_progress"
	CountStatusCompleted  = "completed"
	CountStatusCancelled  = "cancelled"
)

// InventoryCount es una sesión de conteo cíclico: compara la cantidad del
// sistema contra la contada físicamente y, al completarse, puede ajustar saldos.
type InventoryCount struct {
	ID          string
	WarehouseID string // vacío = todas las bodegas
	Name        string
	Status      string
	Notes       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTerminal indica si la sesión ya no admite transiciones.
func (c *InventoryCount) IsTerminal() bool {
	return c.Status == CountStatusCompleted || c.Status == CountStatusCancelled
}

// InventoryCountItem congela la cantidad del sistema al crear la sesión y
// registra después la cantidad contada.
type InventoryCountItem struct {
	ID               string
	InventoryCountID string
	StockItemID      string
	SystemQuantity   int64
	CountedQuantity  *int64 // nulo hasta que alguien cuenta
	Notes            string
	CountedBy        string
	CountedAt        *time.Time
	CreatedAt        time.Time
}

// Variance devuelve contado - sistema (cero si aún no se contó).
func (i *InventoryCountItem) Variance() int64 {
	if i.CountedQuantity == nil {
		return 0
	}
	return *i.CountedQuantity - i.SystemQuantity
}
