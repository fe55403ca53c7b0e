package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

// ProviderUseCase casos de uso CRUD para proveedores.
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

// Create crea un proveedor activo.
func (uc *ProviderUseCase) Create(companyID string, in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	provider := &entity.Provider{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		NIT:       in.NIT,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(provider); err != nil {
		return nil, err
	}
	return toProviderResponse(provider), nil
}

// GetByID obtiene un proveedor validando pertenencia a la empresa.
func (uc *ProviderUseCase) GetByID(companyID, id string) (*dto.ProviderResponse, error) {
	provider, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	if provider.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProviderResponse(provider), nil
}

// Update actualiza los datos de contacto y el estado activo.
func (uc *ProviderUseCase) Update(companyID, id string, in dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	provider, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	if provider.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		provider.Name = in.Name
	}
	provider.NIT = in.NIT
	provider.Email = in.Email
	provider.Phone = in.Phone
	provider.Address = in.Address
	if in.Active != nil {
		provider.Active = *in.Active
	}
	provider.UpdatedAt = time.Now()
	if err := uc.repo.Update(provider); err != nil {
		return nil, err
	}
	return toProviderResponse(provider), nil
}

// List lista los proveedores de la empresa con paginación.
func (uc *ProviderUseCase) List(companyID string, page dto.PageRequest) ([]*dto.ProviderResponse, error) {
	page.DefaultPage()
	providers, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, toProviderResponse(p))
	}
	return out, nil
}

// Delete elimina un proveedor de la empresa.
func (uc *ProviderUseCase) Delete(companyID, id string) error {
	provider, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if provider == nil {
		return domain.ErrNotFound
	}
	if provider.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		NIT:       p.NIT,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
