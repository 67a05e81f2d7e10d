package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// CreateOfferRequest body para POST /api/ofertas. Fechas en formato YYYY-MM-DD.
type CreateOfferRequest struct {
	Name            string          `json:"nombre" validate:"required,max=100"`
	Description     string          `json:"descripcion"`
	DiscountPercent decimal.Decimal `json:"porcentaje_descuento" validate:"gt=0,lte=100"`
	StartDate       string          `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	EndDate         string          `json:"fecha_fin" validate:"required,datetime=2006-01-02"`
	Active          *bool           `json:"activo"`
}

// UpdateOfferRequest body para PATCH /api/ofertas/:id. Solo se modifican los campos presentes.
type UpdateOfferRequest struct {
	Name            *string          `json:"nombre" validate:"omitempty,min=1,max=100"`
	Description     *string          `json:"descripcion"`
	DiscountPercent *decimal.Decimal `json:"porcentaje_descuento" validate:"omitempty,gt=0,lte=100"`
	StartDate       *string          `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string          `json:"fecha_fin" validate:"omitempty,datetime=2006-01-02"`
	Active          *bool            `json:"activo"`
}

// AssignOfferRequest body para /api/producto-oferta/assign y /unassign.
type AssignOfferRequest struct {
	ProductID string `json:"producto_id" validate:"required"`
	OfferID   string `json:"oferta_id" validate:"required"`
}

// OfferResponse salida de una oferta.
type OfferResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"nombre"`
	Description     string          `json:"descripcion"`
	DiscountPercent decimal.Decimal `json:"porcentaje_descuento"`
	StartDate       string          `json:"fecha_inicio"`
	EndDate         string          `json:"fecha_fin"`
	Active          bool            `json:"activo"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ActiveOfferResponse oferta vigente con el precio resultante para el producto.
type ActiveOfferResponse struct {
	OfferResponse
	DiscountedPrice decimal.Decimal `json:"precio_con_descuento"`
}

// OfferListResponse lista paginada de ofertas.
type OfferListResponse struct {
	Items []OfferResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToOfferResponse mapea la entidad a su representación HTTP.
func ToOfferResponse(o *entity.Offer) OfferResponse {
	return OfferResponse{
		ID:              o.ID,
		Name:            o.Name,
		Description:     o.Description,
		DiscountPercent: o.DiscountPercent,
		StartDate:       o.StartDate.Format(DateLayout),
		EndDate:         o.EndDate.Format(DateLayout),
		Active:          o.Active,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToActiveOffersResponse mapea las ofertas vigentes de un producto.
func ToActiveOffersResponse(offers []entity.PricedOffer) []ActiveOfferResponse {
	out := make([]ActiveOfferResponse, 0, len(offers))
	for i := range offers {
		out = append(out, ActiveOfferResponse{
			OfferResponse:   ToOfferResponse(&offers[i].Offer),
			DiscountedPrice: offers[i].DiscountedPrice,
		})
	}
	return out
}

// ParseDate interpreta una fecha YYYY-MM-DD como medianoche UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
