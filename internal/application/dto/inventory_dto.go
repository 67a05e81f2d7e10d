package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/inventario/ajustes. El usuario sale del token.
type AdjustStockRequest struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Delta     decimal.Decimal `json:"cambio" validate:"ne=0"`
	Reason    string          `json:"motivo" validate:"required,oneof=compra ajuste devolucion"`
}

// ProductResponse vista del producto devuelta tras un cambio de stock o en listados de caducidad.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"nombre"`
	Barcode   string          `json:"codigo_barras"`
	SalePrice decimal.Decimal `json:"precio_venta"`
	Stock     decimal.Decimal `json:"stock"`
	Unit      string          `json:"unidad_medida"`
	ExpiresAt *string         `json:"fecha_caducidad"`
}

// HistoryResponse fila del historial de inventario.
type HistoryResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"producto_id"`
	Change    decimal.Decimal `json:"cambio"`
	Reason    string          `json:"motivo"`
	Date      time.Time       `json:"fecha"`
	UserID    string          `json:"usuario_id"`
}

// AlertResponse alerta del motor de alertas.
type AlertResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"producto_id"`
	Kind         string    `json:"tipo"`
	Message      string    `json:"mensaje"`
	Date         time.Time `json:"fecha"`
	Acknowledged bool      `json:"atendida"`
}

// AdjustStockResponse resultado de un ajuste de stock.
type AdjustStockResponse struct {
	Product ProductResponse `json:"producto"`
	History HistoryResponse `json:"movimiento"`
	Alerts  []AlertResponse `json:"alertas"`
}

// ToProductResponse mapea la entidad a su representación HTTP.
func ToProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Barcode:   p.Barcode,
		SalePrice: p.SalePrice,
		Stock:     p.Stock,
		Unit:      p.Unit,
	}
	if p.ExpiresAt != nil {
		s := p.ExpiresAt.Format(DateLayout)
		out.ExpiresAt = &s
	}
	return out
}

// ToHistoryResponse mapea una fila del historial.
func ToHistoryResponse(h *entity.InventoryHistory) HistoryResponse {
	return HistoryResponse{
		ID:        h.ID,
		ProductID: h.ProductID,
		Change:    h.Change,
		Reason:    h.Reason,
		Date:      h.Date,
		UserID:    h.UserID,
	}
}

// ToAlertResponses mapea una lista de alertas.
func ToAlertResponses(alerts []*entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			ID:           a.ID,
			ProductID:    a.ProductID,
			Kind:         a.Kind,
			Message:      a.Message,
			Date:         a.Date,
			Acknowledged: a.Acknowledged,
		})
	}
	return out
}
