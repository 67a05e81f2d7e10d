package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/reports"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	ledger  *sales.Ledger
	reports *reports.Service
	val     *Validator
	errs    *ErrorMapper
}

// NewSaleHandler construye el handler.
func NewSaleHandler(ledger *sales.Ledger, reports *reports.Service, val *Validator, errs *ErrorMapper) *SaleHandler {
	return &SaleHandler{ledger: ledger, reports: reports, val: val, errs: errs}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Registra cabecera, detalle, descuento de stock, historial y alertas en una sola transacción.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "metodo_pago y productos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := h.val.Bind(c, &in); err != nil {
		return h.errs.Respond(c, err)
	}
	input := sales.CreateSaleInput{
		UserID:        GetUserID(c),
		PaymentMethod: in.PaymentMethod,
		Lines:         make([]sales.LineInput, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.LineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	sale, err := h.ledger.CreateSale(c.UserContext(), input)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        desde       query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta       query  string  false  "Fecha final inclusiva (YYYY-MM-DD)"
// @Param        usuario_id  query  string  false  "Filtrar por cajero"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ventas [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	page := pageParams(c)
	list, err := h.ledger.List(c.UserContext(), repository.SaleFilter{
		From:   from,
		To:     to,
		UserID: c.Query("usuario_id"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.ToSaleResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con su detalle
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.ledger.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// Ticket godoc
// @Summary      Ticket PDF de una venta
// @Tags         ventas
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/ticket [get]
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.reports.SaleTicket(c.UserContext(), id)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+id+`.pdf"`)
	return c.Send(pdf)
}
