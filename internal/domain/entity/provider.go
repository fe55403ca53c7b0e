package entity

import "time"

// Provider representa un proveedor al que se le generan órdenes de compra.
type Provider struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
