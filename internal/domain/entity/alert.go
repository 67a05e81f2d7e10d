package entity

import "time"

// Tipos de alerta.
const (
	AlertExpiry   = "caducidad"
	AlertLowStock = "stock_bajo"
)

// Alert es un aviso generado por el motor de alertas. Solo Acknowledged cambia tras crearse.
type Alert struct {
	ID           string
	ProductID    string
	Kind         string
	Message      string
	Date         time.Time
	Acknowledged bool
}
