package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/offers"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// OfferHandler maneja ofertas y su asignación a productos (protegido).
type OfferHandler struct {
	svc  *offers.Service
	val  *Validator
	errs *ErrorMapper
}

// NewOfferHandler construye el handler.
func NewOfferHandler(svc *offers.Service, val *Validator, errs *ErrorMapper) *OfferHandler {
	return &OfferHandler{svc: svc, val: val, errs: errs}
}

// Assign godoc
// @Summary      Asignar oferta a producto
// @Tags         ofertas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignOfferRequest  true  "producto_id y oferta_id"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/producto-oferta/assign [post]
func (h *OfferHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignOfferRequest
	if err := h.val.Bind(c, &in); err != nil {
		return h.errs.Respond(c, err)
	}
	if err := h.svc.Assign(c.UserContext(), in.ProductID, in.OfferID); err != nil {
		return h.errs.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "oferta asignada"})
}

// Unassign godoc
// @Summary      Quitar oferta de producto
// @Tags         ofertas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignOfferRequest  true  "producto_id y oferta_id"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/producto-oferta/unassign [post]
func (h *OfferHandler) Unassign(c *fiber.Ctx) error {
	var in dto.AssignOfferRequest
	if err := h.val.Bind(c, &in); err != nil {
		return h.errs.Respond(c, err)
	}
	if err := h.svc.Unassign(c.UserContext(), in.ProductID, in.OfferID); err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "oferta desasignada"})
}

// Create godoc
// @Summary      Crear oferta
// @Tags         ofertas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOfferRequest  true  "Datos de la oferta"
// @Success      201   {object}  dto.OfferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ofertas [post]
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOfferRequest
	if err := h.val.Bind(c, &in); err != nil {
		return h.errs.Respond(c, err)
	}
	start, err := dto.ParseDate(in.StartDate)
	if err != nil {
		return h.errs.Respond(c, fmt.Errorf("%w: fecha_inicio", domain.ErrInvalidInput))
	}
	end, err := dto.ParseDate(in.EndDate)
	if err != nil {
		return h.errs.Respond(c, fmt.Errorf("%w: fecha_fin", domain.ErrInvalidInput))
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	offer, err := h.svc.Create(c.UserContext(), offers.CreateInput{
		Name:            in.Name,
		Description:     in.Description,
		DiscountPercent: in.DiscountPercent,
		StartDate:       start,
		EndDate:         end,
		Active:          active,
	})
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOfferResponse(offer))
}

// List godoc
// @Summary      Listar ofertas
// @Tags         ofertas
// @Security     Bearer
// @Produce      json
// @Param        activas  query  bool  false  "Solo ofertas activas"
// @Param        limit    query  int   false  "Límite"  default(20)
// @Param        offset   query  int   false  "Offset"  default(0)
// @Success      200  {object}  dto.OfferListResponse
// @Router       /api/ofertas [get]
func (h *OfferHandler) List(c *fiber.Ctx) error {
	page := pageParams(c)
	list, err := h.svc.List(c.UserContext(), c.QueryBool("activas", false), page.Limit, page.Offset)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	out := dto.OfferListResponse{
		Items: make([]dto.OfferResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, o := range list {
		out.Items = append(out.Items, dto.ToOfferResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener oferta
// @Tags         ofertas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la oferta"
// @Success      200  {object}  dto.OfferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ofertas/{id} [get]
func (h *OfferHandler) GetByID(c *fiber.Ctx) error {
	offer, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(dto.ToOfferResponse(offer))
}

// Update godoc
// @Summary      Actualizar oferta (parcial)
// @Tags         ofertas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la oferta"
// @Param        body  body  dto.UpdateOfferRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.OfferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ofertas/{id} [patch]
func (h *OfferHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOfferRequest
	if err := h.val.Bind(c, &in); err != nil {
		return h.errs.Respond(c, err)
	}
	patch := entity.OfferPatch{
		Name:            in.Name,
		Description:     in.Description,
		DiscountPercent: in.DiscountPercent,
		Active:          in.Active,
	}
	if in.StartDate != nil {
		d, err := dto.ParseDate(*in.StartDate)
		if err != nil {
			return h.errs.Respond(c, fmt.Errorf("%w: fecha_inicio", domain.ErrInvalidInput))
		}
		patch.StartDate = &d
	}
	if in.EndDate != nil {
		d, err := dto.ParseDate(*in.EndDate)
		if err != nil {
			return h.errs.Respond(c, fmt.Errorf("%w: fecha_fin", domain.ErrInvalidInput))
		}
		patch.EndDate = &d
	}
	offer, err := h.svc.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(dto.ToOfferResponse(offer))
}

// Delete godoc
// @Summary      Eliminar oferta
// @Description  Falla con 409 si la oferta tiene productos asignados.
// @Tags         ofertas
// @Security     Bearer
// @Param        id   path  string  true  "ID de la oferta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ofertas/{id} [delete]
func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Products godoc
// @Summary      Productos asignados a una oferta
// @Tags         ofertas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la oferta"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ofertas/{id}/productos [get]
func (h *OfferHandler) Products(c *fiber.Ctx) error {
	ids, err := h.svc.ProductsFor(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(fiber.Map{"oferta_id": c.Params("id"), "productos": ids})
}

// ActiveForProduct godoc
// @Summary      Ofertas vigentes de un producto
// @Description  Ordenadas por porcentaje de descuento descendente; incluye el precio con descuento.
// @Tags         ofertas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.ActiveOfferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/ofertas [get]
func (h *OfferHandler) ActiveForProduct(c *fiber.Ctx) error {
	list, err := h.svc.ActiveOffersFor(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Respond(c, err)
	}
	return c.JSON(dto.ToActiveOffersResponse(list))
}
