package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// InventoryHandler maneja ajustes manuales de stock y el historial (protegido).
type InventoryHandler struct {
	svc  *inventory.Service
	val  *Validator
	errs *ErrorMapper
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *inventory.Service, val *Validator, errs *ErrorMapper) *InventoryHandler {
	return &InventoryHandler{svc: svc, val: val, errs: errs}
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Entradas por compra o devolución y correcciones manuales. Las ventas usan /api/ventas.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "producto_id, cambio (con signo) y motivo"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/ajustes [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := h.val.Bind(c, &in); err != nil {
		return h.errs.Respond(c, err)
	}
	res, err := h.svc.Adjust(c.UserContext(), inventory.AdjustInput{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Reason:    in.Reason,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		Product: dto.ToProductResponse(res.Product),
		History: dto.ToHistoryResponse(res.History),
		Alerts:  dto.ToAlertResponses(res.Alerts),
	})
}

// History godoc
// @Summary      Historial de inventario de un producto
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        desde      query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta      query  string  false  "Fecha final inclusiva (YYYY-MM-DD)"
// @Param        limit      query  int     false  "Límite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/historial/{productId} [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	rows, err := h.svc.History(c.UserContext(), c.Params("productId"), repository.HistoryFilter{
		From:   from,
		To:     to,
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out := make([]dto.HistoryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToHistoryResponse(r))
	}
	return c.JSON(out)
}
