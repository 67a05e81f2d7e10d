package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas en el catálogo.
const (
	UnitPiece = "pieza"
	UnitKg    = "kg"
	UnitLiter = "litro"
	UnitOther = "otro"
)

// Product representa un producto del catálogo. El catálogo (externo al núcleo) mantiene nombre,
// precios, proveedor y categoría; Stock solo lo modifica el StockLedger.
type Product struct {
	ID            string
	Name          string
	Barcode       string // único
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         decimal.Decimal
	Unit          string
	ExpiresAt     *time.Time // fecha de caducidad (solo fecha)
	SupplierID    *string
	CategoryID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidUnit indica si u es una unidad de medida conocida.
func ValidUnit(u string) bool {
	switch u {
	case UnitPiece, UnitKg, UnitLiter, UnitOther:
		return true
	}
	return false
}
