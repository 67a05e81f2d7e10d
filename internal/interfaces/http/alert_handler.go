package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/alerts"
	"github.com/jhoicas/puntoventa-api/internal/application/dto"
)

// AlertHandler maneja alertas pendientes y la consulta de productos por caducar (protegido).
type AlertHandler struct {
	svc         *alerts.Service
	defaultDays int
	errs        *ErrorMapper
}

// NewAlertHandler construye el handler. defaultDays se usa cuando la consulta no trae ?dias.
func NewAlertHandler(svc *alerts.Service, defaultDays int, errs *ErrorMapper) *AlertHandler {
	return &AlertHandler{svc: svc, defaultDays: defaultDays, errs: errs}
}

// ListPending godoc
// @Summary      Alertas pendientes
// @Tags         alertas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alertas [get]
func (h *AlertHandler) ListPending(c *fiber.Ctx) error {
	page := pageParams(c)
	list, err := h.svc.ListPending(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(dto.ToAlertResponses(list))
}

// Acknowledge godoc
// @Summary      Marcar alerta como atendida
// @Tags         alertas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alertas/{id}/atender [patch]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	if err := h.svc.Acknowledge(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "alerta atendida"})
}

// Expiring godoc
// @Summary      Productos por caducar
// @Description  Productos con stock cuya fecha de caducidad es hoy + dias o anterior.
// @Tags         alertas
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Horizonte en días"
// @Success      200  {array}   dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/productos/por-caducar [get]
func (h *AlertHandler) Expiring(c *fiber.Ctx) error {
	list, err := h.svc.ExpiringProducts(c.UserContext(), c.QueryInt("dias", h.defaultDays))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return c.JSON(out)
}
