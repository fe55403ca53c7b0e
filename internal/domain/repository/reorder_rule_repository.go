package repository

import "github.com/tu-usuario/compras-pro/internal/domain/entity"

// ReorderRuleRepository define el puerto de persistencia para ReorderRule (DIP).
// La tabla lleva un índice único parcial sobre (company_id, product_id) WHERE enabled,
// refuerzo del invariante "una sola regla habilitada por producto".
type ReorderRuleRepository interface {
	Create(rule *entity.ReorderRule) error
	GetByID(id string) (*entity.ReorderRule, error)
	// GetEnabledByProduct devuelve la regla habilitada del producto, o nil si no hay.
	GetEnabledByProduct(companyID, productID string) (*entity.ReorderRule, error)
	Update(rule *entity.ReorderRule) error
	SetEnabled(id string, enabled bool) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.ReorderRule, error)
	Delete(id string) error
}
