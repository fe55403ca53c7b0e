package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo implementación del puerto ProviderRepository sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador de persistencia para proveedores.
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

// Create persiste un nuevo proveedor.
func (r *ProviderRepo) Create(provider *entity.Provider) error {
	query := `
		INSERT INTO providers (id, company_id, name, nit, email, phone, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		provider.ID, provider.CompanyID, provider.Name, provider.NIT, provider.Email,
		provider.Phone, provider.Address, provider.Active, provider.CreatedAt, provider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *ProviderRepo) GetByID(id string) (*entity.Provider, error) {
	query := `
		SELECT id, company_id, name, nit, email, phone, address, active, created_at, updated_at
		FROM providers WHERE id = $1`
	var p entity.Provider
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.NIT, &p.Email, &p.Phone, &p.Address,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return &p, nil
}

// Update actualiza un proveedor existente.
func (r *ProviderRepo) Update(provider *entity.Provider) error {
	query := `
		UPDATE providers SET name = $2, nit = $3, email = $4, phone = $5, address = $6, active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		provider.ID, provider.Name, provider.NIT, provider.Email, provider.Phone,
		provider.Address, provider.Active, provider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}
	return nil
}

// ListByCompany lista proveedores por empresa con paginación.
func (r *ProviderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Provider, error) {
	query := `
		SELECT id, company_id, name, nit, email, phone, address, active, created_at, updated_at
		FROM providers WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Provider
	for rows.Next() {
		var p entity.Provider
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.NIT, &p.Email, &p.Phone,
			&p.Address, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un proveedor por ID.
func (r *ProviderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	return nil
}
