package dto

import "time"

// CreateProviderRequest datos para crear un proveedor.
type CreateProviderRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateProviderRequest datos editables de un proveedor.
type UpdateProviderRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Active  *bool  `json:"active"`
}

// ProviderResponse representación HTTP de un proveedor.
type ProviderResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
