package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// MovementHandler consultas de solo lectura sobre el libro de movimientos.
type MovementHandler struct {
	svc *inventory.Service
}

// NewMovementHandler construye el handler.
func NewMovementHandler(svc *inventory.Service) *MovementHandler {
	return &MovementHandler{svc: svc}
}

// List godoc
// @Summary      Consultar el libro de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        reason        query  string  false  "purchase, sale, return, adjustment, ..."
// @Param        reference     query  string  false  "Substring de la referencia"
// @Param        days          query  int     false  "Ventana hacia atrás"  default(30)
// @Param        limit         query  int     false  "Límite"               default(50)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	movements, err := h.svc.Movements(c.Context(), repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Reason:      c.Query("reason"),
		Reference:   c.Query("reference"),
		Days:        c.QueryInt("days", 30),
		Limit:       limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movements)),
		Page:  dto.PageResponse{Limit: limit},
	}
	for _, m := range movements {
		out.Items = append(out.Items, dto.NewMovementResponse(m))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Agregado del libro por razón
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        days          query  int     false  "Ventana hacia atrás"  default(30)
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {object}  dto.MovementSummaryResponse
// @Router       /api/movements/summary [get]
func (h *MovementHandler) Summary(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		days = 30
	}
	rows, err := h.svc.MovementSummary(c.Context(), days, c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.MovementSummaryResponse{Days: days, Rows: make([]dto.MovementSummaryRow, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.MovementSummaryRow{
			Reason:     r.Reason,
			Count:      r.Count,
			TotalUnits: r.TotalQuantity,
		})
	}
	return c.JSON(out)
}
