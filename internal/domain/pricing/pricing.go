package pricing

import "github.com/shopspring/decimal"

// Decimales que guardan las columnas: NUMERIC(14,3) para cantidades y NUMERIC(14,2) para dinero.
const (
	QuantityPlaces int32 = 3
	MoneyPlaces    int32 = 2
	PercentPlaces  int32 = 2
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// DiscountedPrice aplica un descuento porcentual al precio de venta.
// PrecioConDescuento = round(precio * (1 - pct/100), 2)
func DiscountedPrice(salePrice, pct decimal.Decimal) decimal.Decimal {
	factor := one.Sub(pct.Div(hundred))
	return salePrice.Mul(factor).Round(2)
}

// ValidDiscount indica si pct está en (0, 100].
func ValidDiscount(pct decimal.Decimal) bool {
	return pct.GreaterThan(decimal.Zero) && pct.LessThanOrEqual(hundred)
}

// LineSubtotal = round(cantidad * precio unitario, 2)
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// Totals calcula subtotal, impuesto y total de una venta a partir de los subtotales de línea.
// El impuesto se redondea a 2 decimales; total = subtotal + impuesto.
func Totals(lineSubtotals []decimal.Decimal, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, s := range lineSubtotals {
		subtotal = subtotal.Add(s)
	}
	tax = subtotal.Mul(taxRate).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// FitsPlaces indica si d se representa con a lo sumo places decimales sin redondear.
// Los ceros a la derecha no cuentan: 1.500 cabe en 2 decimales.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
