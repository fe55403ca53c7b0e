package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineResponse línea de una orden generada.
type OrderLineResponse struct {
	ProductID   string          `json:"product_id"`
	Qty         int64           `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
}

// OrderResponse representación HTTP de una orden de compra generada.
type OrderResponse struct {
	ID               string              `json:"id"`
	CompanyID        string              `json:"company_id"`
	ProviderID       string              `json:"provider_id"`
	Status           string              `json:"status"`
	Lines            []OrderLineResponse `json:"lines"`
	TotalEstimate    decimal.Decimal     `json:"total_estimate"`
	RequiresApproval bool                `json:"requires_approval"`
	Notes            string              `json:"notes,omitempty"`
	GenerationDate   string              `json:"generation_date"` // YYYY-MM-DD
	SentAt           *time.Time          `json:"sent_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ListOrdersRequest filtros del listado de órdenes.
type ListOrdersRequest struct {
	Status     string `query:"status"`
	ProviderID string `query:"provider_id"`
	From       string `query:"from"` // YYYY-MM-DD, sobre generation_date
	To         string `query:"to"`
	PageRequest
}
