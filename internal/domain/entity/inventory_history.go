package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de cambio de stock.
const (
	ReasonSale       = "venta"
	ReasonPurchase   = "compra"
	ReasonAdjustment = "ajuste"
	ReasonReturn     = "devolucion"
)

// ValidReason indica si r es un motivo de movimiento conocido.
func ValidReason(r string) bool {
	switch r {
	case ReasonSale, ReasonPurchase, ReasonAdjustment, ReasonReturn:
		return true
	}
	return false
}

// InventoryHistory es una fila del historial de inventario (append-only).
// Change es positivo para entradas y negativo para salidas.
type InventoryHistory struct {
	ID        string
	ProductID string
	Change    decimal.Decimal
	Reason    string
	Date      time.Time
	UserID    string
}

// StockChange describe un cambio de stock a aplicar dentro de una transacción.
type StockChange struct {
	ProductID string
	Delta     decimal.Decimal
	Reason    string
	UserID    string
}
