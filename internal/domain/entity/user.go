package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin     = "admin"
	RoleComprador = "comprador"
	RoleBodeguero = "bodeguero"
)

// User representa un usuario de la aplicación (scoped por empresa).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin, comprador, bodeguero
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
