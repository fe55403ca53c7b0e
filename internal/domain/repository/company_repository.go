package repository

import (
	"context"

	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	// ListActiveIDs devuelve los IDs de las empresas activas (corridas "all tenants").
	ListActiveIDs(ctx context.Context) ([]string, error)
}
