package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra generada.
// Máquina de estados: pending_review → sent → completed, pending_review → cancelled.
const (
	OrderStatusPendingReview = "pending_review"
	OrderStatusSent          = "sent"
	OrderStatusCancelled     = "cancelled"
	OrderStatusCompleted     = "completed"
)

// GeneratedOrder es el borrador de orden de compra agrupado por proveedor que
// produce el motor de reposición. El motor solo la crea (status pending_review);
// las transiciones posteriores las hacen los colaboradores (revisión, envío, recepción).
type GeneratedOrder struct {
	ID               string
	CompanyID        string
	ProviderID       string
	Status           string
	Lines            []OrderLine
	TotalEstimate    decimal.Decimal // invariante: suma exacta de Qty * UnitPrice por línea
	RequiresApproval bool            // true si alguna regla contribuyente lo exige
	Notes            string
	GenerationDate   time.Time // día calendario local del tenant en que se generó
	SentAt           *time.Time
	CreatedAt        time.Time
}

// OrderLine es una línea de la orden con snapshot desnormalizado del producto
// al momento de generación; no cambia si el producto se edita después.
type OrderLine struct {
	ProductID   string
	Qty         int64
	UnitPrice   decimal.Decimal
	ProductName string
	ProductCode string // SKU al momento de generación
}

// LineTotal devuelve Qty * UnitPrice de la línea.
func (l OrderLine) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(l.Qty).Mul(l.UnitPrice)
}

// ComputeTotal devuelve la suma exacta de los totales de línea.
func ComputeTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// CanTransition valida la máquina de estados de GeneratedOrder.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusPendingReview:
		return to == OrderStatusSent || to == OrderStatusCancelled
	case OrderStatusSent:
		return to == OrderStatusCompleted
	default:
		return false
	}
}

// IsOpen indica si la orden cuenta para la ventana de deduplicación
// (pending_review o sent).
func IsOpen(status string) bool {
	return status == OrderStatusPendingReview || status == OrderStatusSent
}
