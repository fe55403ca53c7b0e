package repository

import "github.com/tu-usuario/compras-pro/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia para StockMovement (DIP).
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	ListByProduct(companyID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
