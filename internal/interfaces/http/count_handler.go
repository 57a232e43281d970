package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
)

// CountHandler maneja el flujo de conteos cíclicos.
type CountHandler struct {
	uc *inventory.CountUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(uc *inventory.CountUseCase) *CountHandler {
	return &CountHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sesión de conteo
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCountRequest  true  "Alcance del conteo"
// @Success      201  {object}  dto.CountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *CountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Name == "" {
		return badRequest(c, "name es requerido")
	}
	count, err := h.uc.CreateCount(c.Context(), inventory.CreateCountInput{
		Name:        in.Name,
		WarehouseID: in.WarehouseID,
		ProductIDs:  in.ProductIDs,
		Notes:       in.Notes,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCountResponse(count))
}

// Get godoc
// @Summary      Consultar sesión de conteo con sus ítems
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) Get(c *fiber.Ctx) error {
	count, items, err := h.uc.GetCount(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.CountDetailResponse{
		Count: dto.NewCountResponse(count),
		Items: make([]dto.CountItemResponse, 0, len(items)),
	}
	for _, i := range items {
		out.Items = append(out.Items, dto.NewCountItemResponse(i))
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CountListResponse
// @Router       /api/counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit", 20)
	page.Offset = c.QueryInt("offset", 0)
	page.DefaultPage()

	counts, err := h.uc.ListCounts(c.Context(), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.CountListResponse{
		Items: make([]dto.CountResponse, 0, len(counts)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, count := range counts {
		out.Items = append(out.Items, dto.NewCountResponse(count))
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar un conteo (draft -> in_progress)
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/start [post]
func (h *CountHandler) Start(c *fiber.Ctx) error {
	count, err := h.uc.StartCount(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCountResponse(count))
}

// Complete godoc
// @Summary      Completar un conteo, opcionalmente ajustando saldos
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la sesión"
// @Param        body  body  dto.CompleteCountRequest  false  "apply_adjustments"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/complete [post]
func (h *CountHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteCountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "cuerpo inválido")
		}
	}
	count, err := h.uc.CompleteCount(c.Context(), c.Params("id"), in.ApplyAdjustments, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCountResponse(count))
}

// Cancel godoc
// @Summary      Cancelar un conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/cancel [post]
func (h *CountHandler) Cancel(c *fiber.Ctx) error {
	count, err := h.uc.CancelCount(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCountResponse(count))
}

// UpdateItem godoc
// @Summary      Registrar la cantidad contada de un ítem
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del ítem"
// @Param        body  body  dto.CountItemRequest  true  "Cantidad contada"
// @Success      200  {object}  dto.CountItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/items/{id}/update [post]
func (h *CountHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.CountItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	item, err := h.uc.UpdateCountItem(c.Context(), c.Params("id"), in.CountedQuantity, in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCountItemResponse(item))
}
