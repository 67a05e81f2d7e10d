package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en caja.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// ValidPaymentMethod indica si m es un método de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale es la cabecera de una venta. Se crea una sola vez junto con sus líneas.
type Sale struct {
	ID            string
	Date          time.Time
	UserID        string
	PaymentMethod string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Lines         []SaleLine
}

// SaleLine es una línea de detalle. UnitPrice es una foto del precio cobrado y no sigue
// los cambios posteriores de Product.SalePrice.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID *string // nil si el producto fue eliminado del catálogo
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// DailySales resume las ventas de un día.
type DailySales struct {
	Day      time.Time
	Count    int
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}
