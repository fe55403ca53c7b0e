package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/compras-pro/internal/application/replenishment"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

var _ repository.ReorderRuleRepository = (*ReorderRuleRepo)(nil)
var _ replenishment.RuleCatalog = (*ReorderRuleRepo)(nil)

// ReorderRuleRepo implementación del puerto ReorderRuleRepository sobre PostgreSQL.
// También sirve la proyección RuleCatalog del motor de reposición.
//
// La tabla lleva:
//
//	CREATE UNIQUE INDEX reorder_rules_one_enabled
//	ON reorder_rules (company_id, product_id) WHERE enabled;
type ReorderRuleRepo struct {
	q Querier
}

// NewReorderRuleRepository construye el adaptador de persistencia para reglas.
func NewReorderRuleRepository(q Querier) *ReorderRuleRepo {
	return &ReorderRuleRepo{q: q}
}

// Create persiste una nueva regla. domain.ErrDuplicate si choca con el índice
// de una sola regla habilitada por producto.
func (r *ReorderRuleRepo) Create(rule *entity.ReorderRule) error {
	query := `
		INSERT INTO reorder_rules (id, company_id, product_id, provider_id, trigger_stock, reorder_qty, enabled, requires_approval, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.CompanyID, rule.ProductID, rule.ProviderID, rule.TriggerStock,
		rule.ReorderQty, rule.Enabled, rule.RequiresApproval, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reorder rule: %w", err)
	}
	return nil
}

// GetByID obtiene una regla por ID.
func (r *ReorderRuleRepo) GetByID(id string) (*entity.ReorderRule, error) {
	query := `
		SELECT id, company_id, product_id, provider_id, trigger_stock, reorder_qty, enabled, requires_approval, created_at, updated_at
		FROM reorder_rules WHERE id = $1`
	var rule entity.ReorderRule
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rule.ID, &rule.CompanyID, &rule.ProductID, &rule.ProviderID, &rule.TriggerStock,
		&rule.ReorderQty, &rule.Enabled, &rule.RequiresApproval, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reorder rule: %w", err)
	}
	return &rule, nil
}

// GetEnabledByProduct devuelve la regla habilitada del producto, o nil si no hay.
func (r *ReorderRuleRepo) GetEnabledByProduct(companyID, productID string) (*entity.ReorderRule, error) {
	query := `
		SELECT id, company_id, product_id, provider_id, trigger_stock, reorder_qty, enabled, requires_approval, created_at, updated_at
		FROM reorder_rules WHERE company_id = $1 AND product_id = $2 AND enabled`
	var rule entity.ReorderRule
	err := r.q.QueryRow(context.Background(), query, companyID, productID).Scan(
		&rule.ID, &rule.CompanyID, &rule.ProductID, &rule.ProviderID, &rule.TriggerStock,
		&rule.ReorderQty, &rule.Enabled, &rule.RequiresApproval, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enabled rule: %w", err)
	}
	return &rule, nil
}

// Update actualiza umbral, cantidad, proveedor y aprobación de una regla.
func (r *ReorderRuleRepo) Update(rule *entity.ReorderRule) error {
	query := `
		UPDATE reorder_rules SET provider_id = $2, trigger_stock = $3, reorder_qty = $4, requires_approval = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.ProviderID, rule.TriggerStock, rule.ReorderQty, rule.RequiresApproval, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reorder rule: %w", err)
	}
	return nil
}

// SetEnabled habilita o deshabilita una regla. domain.ErrDuplicate si al
// habilitar ya existe otra habilitada para el mismo producto.
func (r *ReorderRuleRepo) SetEnabled(id string, enabled bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE reorder_rules SET enabled = $2, updated_at = now() WHERE id = $1`,
		id, enabled,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("set rule enabled: %w", err)
	}
	return nil
}

// ListByCompany lista reglas por empresa con paginación.
func (r *ReorderRuleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReorderRule, error) {
	query := `
		SELECT id, company_id, product_id, provider_id, trigger_stock, reorder_qty, enabled, requires_approval, created_at, updated_at
		FROM reorder_rules WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reorder rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReorderRule
	for rows.Next() {
		var rule entity.ReorderRule
		if err := rows.Scan(&rule.ID, &rule.CompanyID, &rule.ProductID, &rule.ProviderID,
			&rule.TriggerStock, &rule.ReorderQty, &rule.Enabled, &rule.RequiresApproval,
			&rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reorder rule: %w", err)
		}
		list = append(list, &rule)
	}
	return list, rows.Err()
}

// Delete elimina una regla por ID.
func (r *ReorderRuleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM reorder_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reorder rule: %w", err)
	}
	return nil
}

// EnabledRules lee las reglas habilitadas del tenant para una corrida del motor.
func (r *ReorderRuleRepo) EnabledRules(ctx context.Context, companyID string) ([]replenishment.CatalogRule, error) {
	query := `
		SELECT id, product_id, provider_id, trigger_stock, reorder_qty, requires_approval
		FROM reorder_rules WHERE company_id = $1 AND enabled`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("enabled rules: %w", err)
	}
	defer rows.Close()
	var list []replenishment.CatalogRule
	for rows.Next() {
		var cr replenishment.CatalogRule
		if err := rows.Scan(&cr.RuleID, &cr.ProductID, &cr.ProviderID,
			&cr.TriggerStock, &cr.ReorderQty, &cr.RequiresApproval); err != nil {
			return nil, fmt.Errorf("scan enabled rule: %w", err)
		}
		list = append(list, cr)
	}
	return list, rows.Err()
}
