package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP de saldos de inventario (protegido).
type StockHandler struct {
	svc *inventory.Service
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *inventory.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// List godoc
// @Summary      Listar saldos de inventario
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "in_stock | low_stock | out_of_stock"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        search        query  string  false  "Substring sobre product_id"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit", 20)
	page.Offset = c.QueryInt("offset", 0)
	page.DefaultPage()

	items, err := h.svc.ListStock(c.Context(), repository.StockFilter{
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		Search:      c.Query("search"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.StockListResponse{
		Items: make([]dto.StockItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range items {
		out.Items = append(out.Items, dto.NewStockItemResponse(s))
	}
	return c.JSON(out)
}

// Reorder godoc
// @Summary      Saldos en o bajo su punto de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {array}  dto.StockItemResponse
// @Router       /api/stock/reorder [get]
func (h *StockHandler) Reorder(c *fiber.Ctx) error {
	items, err := h.svc.ReorderItems(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, s := range items {
		out = append(out, dto.NewStockItemResponse(s))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Consultar saldo de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = cualquiera)"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	stock, err := h.svc.GetStock(c.Context(), c.Params("productId"), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemResponse(stock))
}

// Availability godoc
// @Summary      Verificar disponibilidad de unidades
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "ID del producto"
// @Param        quantity      query  int     true   "Cantidad requerida"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/stock/{productId}/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	quantity := int64(c.QueryInt("quantity", 1))
	if quantity <= 0 {
		return badRequest(c, "quantity debe ser > 0")
	}
	productID := c.Params("productId")
	available, err := h.svc.CheckAvailability(c.Context(), productID, quantity, c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		ProductID: productID,
		Quantity:  quantity,
		Available: available,
	})
}

// LedgerCheck godoc
// @Summary      Conciliar cantidad actual contra la suma del libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/ledger-check [get]
func (h *StockHandler) LedgerCheck(c *fiber.Ctx) error {
	productID := c.Params("productId")
	quantity, ledgerSum, err := h.svc.CheckLedger(c.Context(), productID, c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LedgerCheckResponse{
		ProductID:  productID,
		Quantity:   quantity,
		LedgerSum:  ledgerSum,
		Consistent: quantity == ledgerSum,
	})
}

// Add godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                true  "ID del producto"
// @Param        body       body  dto.AddStockRequest   true  "Entrada"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/add [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Quantity <= 0 {
		return badRequest(c, "quantity debe ser > 0")
	}
	stock, err := h.svc.AddStock(c.Context(), inventory.AddStockInput{
		ProductID:   c.Params("productId"),
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Reference:   in.Reference,
		Notes:       in.Notes,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemResponse(stock))
}

// Adjust godoc
// @Summary      Ajustar cantidad a un valor absoluto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.NewQuantity < 0 {
		return badRequest(c, "new_quantity no puede ser negativo")
	}
	stock, err := h.svc.AdjustStock(c.Context(), c.Params("productId"),
		in.NewQuantity, in.Reason, in.Notes, in.WarehouseID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemResponse(stock))
}

// Return godoc
// @Summary      Procesar devolución de unidades
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.ReturnStockRequest  true  "Devolución"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/return [post]
func (h *StockHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Quantity <= 0 {
		return badRequest(c, "quantity debe ser > 0")
	}
	stock, err := h.svc.ProcessReturn(c.Context(), c.Params("productId"),
		in.Quantity, in.Reference, in.WarehouseID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemResponse(stock))
}

// Damage godoc
// @Summary      Dar de baja unidades dañadas o perdidas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.DamageStockRequest  true  "Baja"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/damage [post]
func (h *StockHandler) Damage(c *fiber.Ctx) error {
	var in dto.DamageStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Quantity <= 0 {
		return badRequest(c, "quantity debe ser > 0")
	}
	stock, err := h.svc.MarkDamaged(c.Context(), c.Params("productId"),
		in.Quantity, in.Notes, in.WarehouseID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemResponse(stock))
}

// Thresholds godoc
// @Summary      Actualizar umbrales de reorden de un saldo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId     path   string                       true   "ID del producto"
// @Param        warehouse_id  query  string                       false  "Bodega"
// @Param        body          body   dto.UpdateThresholdsRequest  true   "Umbrales"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/thresholds [put]
func (h *StockHandler) Thresholds(c *fiber.Ctx) error {
	var in dto.UpdateThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	stock, err := h.svc.UpdateThresholds(c.Context(), c.Params("productId"), c.Query("warehouse_id"),
		in.LowStockThreshold, in.ReorderPoint, in.ReorderQuantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStockItemResponse(stock))
}

// Transfer godoc
// @Summary      Trasladar unidades entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Traslado"
// @Success      200  {object}  map[string]dto.StockItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return badRequest(c, "product_id, from_warehouse_id y to_warehouse_id son requeridos")
	}
	if in.Quantity <= 0 {
		return badRequest(c, "quantity debe ser > 0")
	}
	from, to, err := h.svc.Transfer(c.Context(), in.ProductID,
		in.FromWarehouseID, in.ToWarehouseID, in.Quantity, in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"from": dto.NewStockItemResponse(from),
		"to":   dto.NewStockItemResponse(to),
	})
}

// Statistics godoc
// @Summary      Números del tablero de inventario
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {object}  dto.StatisticsResponse
// @Router       /api/statistics [get]
func (h *StockHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.svc.Statistics(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatisticsResponse{
		TotalProducts:      stats.TotalProducts,
		TotalStockValue:    stats.TotalStockValue,
		InStockCount:       stats.InStockCount,
		LowStockCount:      stats.LowStockCount,
		OutOfStockCount:    stats.OutOfStockCount,
		PendingAlerts:      stats.PendingAlerts,
		MovementsToday:     stats.MovementsToday,
		ItemsSoldToday:     stats.ItemsSoldToday,
		ItemsReceivedToday: stats.ItemsReceivedToday,
	})
}
