package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// SaleLineRequest línea de venta tal como la envía la caja.
type SaleLineRequest struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Quantity  decimal.Decimal `json:"cantidad" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"precio_unitario" validate:"gte=0"`
}

// CreateSaleRequest body para POST /api/ventas. El usuario sale del token.
type CreateSaleRequest struct {
	PaymentMethod string            `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Lines         []SaleLineRequest `json:"productos" validate:"required,min=1,dive"`
}

// SaleLineResponse línea de detalle. ProductID es null si el producto ya no existe.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID *string         `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con su detalle.
type SaleResponse struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"fecha"`
	UserID        string             `json:"usuario_id"`
	PaymentMethod string             `json:"metodo_pago"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"impuestos"`
	Total         decimal.Decimal    `json:"total"`
	Lines         []SaleLineResponse `json:"detalle"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DailySalesResponse resumen de un día.
type DailySalesResponse struct {
	Day      string          `json:"dia"`
	Count    int             `json:"ventas"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"impuestos"`
	Total    decimal.Decimal `json:"total"`
}

// ToSaleResponse mapea la entidad a su representación HTTP.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		Date:          s.Date,
		UserID:        s.UserID,
		PaymentMethod: s.PaymentMethod,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		Lines:         make([]SaleLineResponse, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

// ToDailySalesResponse mapea los resúmenes diarios.
func ToDailySalesResponse(days []entity.DailySales) []DailySalesResponse {
	out := make([]DailySalesResponse, 0, len(days))
	for _, d := range days {
		out = append(out, DailySalesResponse{
			Day:      d.Day.Format(DateLayout),
			Count:    d.Count,
			Subtotal: d.Subtotal,
			Tax:      d.Tax,
			Total:    d.Total,
		})
	}
	return out
}
