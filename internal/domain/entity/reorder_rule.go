package entity

import "time"

// ReorderRule es la política de reposición de un producto: umbral de stock,
// cantidad fija a pedir y proveedor. A lo sumo una regla habilitada por
// (company_id, product_id); lo garantiza el caso de uso de reglas junto con
// un índice único parcial en la tabla.
type ReorderRule struct {
	ID               string
	CompanyID        string
	ProductID        string
	ProviderID       string
	TriggerStock     int64 // dispara cuando stock < TriggerStock; 0 = nunca dispara
	ReorderQty       int64 // cantidad fija a pedir, > 0
	Enabled          bool
	RequiresApproval bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
