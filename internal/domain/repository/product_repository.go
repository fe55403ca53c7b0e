package repository

import (
	"context"

	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock no se modifica vía Update; se maneja con AdjustStock dentro de movimientos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
	// AdjustStock suma delta (puede ser negativo) al stock del producto.
	AdjustStock(ctx context.Context, productID string, delta int64) error
}
