package entity

import "time"

// Company representa la empresa dueña de los datos (tenant).
// Todas las entidades del sistema están scoped por CompanyID.
type Company struct {
	ID        string
	Name      string
	NIT       string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
