package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer es una campaña de descuento porcentual acotada en fechas.
// StartDate y EndDate son fechas (medianoche UTC) y ambas son inclusivas.
type Offer struct {
	ID              string
	Name            string
	Description     string
	DiscountPercent decimal.Decimal // 0 < pct <= 100
	StartDate       time.Time
	EndDate         time.Time
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActiveOn indica si la oferta está activa y day cae dentro de su vigencia.
func (o *Offer) ActiveOn(day time.Time) bool {
	if !o.Active {
		return false
	}
	d := DateOf(day)
	return !d.Before(DateOf(o.StartDate)) && !d.After(DateOf(o.EndDate))
}

// OfferPatch contiene los campos modificables de una oferta; nil significa "sin cambio".
type OfferPatch struct {
	Name            *string
	Description     *string
	DiscountPercent *decimal.Decimal
	StartDate       *time.Time
	EndDate         *time.Time
	Active          *bool
}

// Empty indica si el patch no modifica nada.
func (p OfferPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.DiscountPercent == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Active == nil
}

// Apply devuelve una copia de o con los campos del patch aplicados.
func (p OfferPatch) Apply(o Offer) Offer {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.DiscountPercent != nil {
		o.DiscountPercent = *p.DiscountPercent
	}
	if p.StartDate != nil {
		o.StartDate = DateOf(*p.StartDate)
	}
	if p.EndDate != nil {
		o.EndDate = DateOf(*p.EndDate)
	}
	if p.Active != nil {
		o.Active = *p.Active
	}
	return o
}

// ProductOffer asocia un producto con una oferta. La clave compuesta es única.
type ProductOffer struct {
	ProductID string
	OfferID   string
}

// PricedOffer es una oferta vigente con el precio resultante para un producto.
type PricedOffer struct {
	Offer
	DiscountedPrice decimal.Decimal
}

// DateOf trunca t a la fecha (medianoche UTC) tomando año/mes/día en su propia zona.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
