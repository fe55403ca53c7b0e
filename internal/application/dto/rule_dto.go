package dto

import "time"

// CreateRuleRequest datos para crear una regla de reposición.
type CreateRuleRequest struct {
	ProductID        string `json:"product_id"`
	ProviderID       string `json:"provider_id"`
	TriggerStock     int64  `json:"trigger_stock"`
	ReorderQty       int64  `json:"reorder_qty"`
	Enabled          bool   `json:"enabled"`
	RequiresApproval bool   `json:"requires_approval"`
}

// UpdateRuleRequest datos editables de una regla.
type UpdateRuleRequest struct {
	ProviderID       string `json:"provider_id"`
	TriggerStock     *int64 `json:"trigger_stock"`
	ReorderQty       *int64 `json:"reorder_qty"`
	RequiresApproval *bool  `json:"requires_approval"`
}

// RuleResponse representación HTTP de una regla de reposición.
type RuleResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	ProductID        string    `json:"product_id"`
	ProviderID       string    `json:"provider_id"`
	TriggerStock     int64     `json:"trigger_stock"`
	ReorderQty       int64     `json:"reorder_qty"`
	Enabled          bool      `json:"enabled"`
	RequiresApproval bool      `json:"requires_approval"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
