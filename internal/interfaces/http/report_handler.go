package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/reports"
	"github.com/jhoicas/puntoventa-api/internal/domain"
)

// ReportHandler expone los reportes de ventas (solo admin).
type ReportHandler struct {
	svc  *reports.Service
	errs *ErrorMapper
	now  func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *reports.Service, errs *ErrorMapper) *ReportHandler {
	return &ReportHandler{svc: svc, errs: errs, now: time.Now}
}

// DailySales godoc
// @Summary      Ventas por día
// @Description  Sin parámetros devuelve los últimos 7 días.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta  query  string  false  "Fecha final inclusiva (YYYY-MM-DD)"
// @Success      200  {array}   dto.DailySalesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/ventas-diarias [get]
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	to := h.now().UTC()
	if raw := c.Query("hasta"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			return h.errs.Respond(c, fmt.Errorf("%w: hasta debe tener formato YYYY-MM-DD", domain.ErrInvalidInput))
		}
		to = d
	}
	from := to.AddDate(0, 0, -6)
	if raw := c.Query("desde"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			return h.errs.Respond(c, fmt.Errorf("%w: desde debe tener formato YYYY-MM-DD", domain.ErrInvalidInput))
		}
		from = d
	}
	days, err := h.svc.DailySales(c.UserContext(), from, to)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(dto.ToDailySalesResponse(days))
}
