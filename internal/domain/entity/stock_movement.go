package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn     = "in"     // entrada (recepción de orden de compra)
	MovementTypeOut    = "out"    // salida (venta)
	MovementTypeAdjust = "adjust" // ajuste manual
)

// StockMovement es el registro de auditoría de cada cambio de stock.
// Cuando se recibe una orden generada, Reference lleva el ID de la
// GeneratedOrder para trazabilidad.
type StockMovement struct {
	ID        string
	CompanyID string
	ProductID string
	Type      string // in, out, adjust
	Quantity  int64  // positivo para in/adjust+, negativo para out
	Reference string // ID de la orden, factura o nota de ajuste
	Notes     string
	CreatedAt time.Time
	CreatedBy string // UserID
}
