package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/internal/domain/repository"
)

// RuleUseCase casos de uso CRUD para reglas de reposición.
// Hace cumplir el invariante "a lo sumo una regla habilitada por
// (empresa, producto)": pre-chequeo aquí más el índice único parcial de la
// tabla como garantía final ante carreras.
type RuleUseCase struct {
	repo         repository.ReorderRuleRepository
	productRepo  repository.ProductRepository
	providerRepo repository.ProviderRepository
}

// NewRuleUseCase construye el caso de uso.
func NewRuleUseCase(
	repo repository.ReorderRuleRepository,
	productRepo repository.ProductRepository,
	providerRepo repository.ProviderRepository,
) *RuleUseCase {
	return &RuleUseCase{repo: repo, productRepo: productRepo, providerRepo: providerRepo}
}

// Create crea una regla. Valida producto y proveedor de la empresa y rechaza
// una segunda regla habilitada para el mismo producto.
func (uc *RuleUseCase) Create(companyID string, in dto.CreateRuleRequest) (*dto.RuleResponse, error) {
	if in.ProductID == "" || in.ProviderID == "" || in.TriggerStock < 0 || in.ReorderQty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	provider, err := uc.providerRepo.GetByID(in.ProviderID)
	if err != nil || provider == nil || provider.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Enabled {
		enabled, err := uc.repo.GetEnabledByProduct(companyID, in.ProductID)
		if err != nil {
			return nil, err
		}
		if enabled != nil {
			return nil, domain.ErrRuleAlreadyEnabled
		}
	}
	now := time.Now()
	rule := &entity.ReorderRule{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		ProductID:        in.ProductID,
		ProviderID:       in.ProviderID,
		TriggerStock:     in.TriggerStock,
		ReorderQty:       in.ReorderQty,
		Enabled:          in.Enabled,
		RequiresApproval: in.RequiresApproval,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(rule); err != nil {
		// El índice único parcial puede ganarle al pre-chequeo ante una carrera.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrRuleAlreadyEnabled
		}
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// GetByID obtiene una regla validando pertenencia a la empresa.
func (uc *RuleUseCase) GetByID(companyID, id string) (*dto.RuleResponse, error) {
	rule, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}
	if rule.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toRuleResponse(rule), nil
}

// Update edita umbral, cantidad, proveedor y aprobación de una regla.
func (uc *RuleUseCase) Update(companyID, id string, in dto.UpdateRuleRequest) (*dto.RuleResponse, error) {
	rule, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}
	if rule.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.ProviderID != "" {
		provider, err := uc.providerRepo.GetByID(in.ProviderID)
		if err != nil || provider == nil || provider.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		rule.ProviderID = in.ProviderID
	}
	if in.TriggerStock != nil {
		if *in.TriggerStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		rule.TriggerStock = *in.TriggerStock
	}
	if in.ReorderQty != nil {
		if *in.ReorderQty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		rule.ReorderQty = *in.ReorderQty
	}
	if in.RequiresApproval != nil {
		rule.RequiresApproval = *in.RequiresApproval
	}
	rule.UpdatedAt = time.Now()
	if err := uc.repo.Update(rule); err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// SetEnabled habilita o deshabilita una regla. Al habilitar se re-verifica el
// invariante de una sola regla habilitada por producto.
func (uc *RuleUseCase) SetEnabled(companyID, id string, enabled bool) (*dto.RuleResponse, error) {
	rule, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}
	if rule.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if enabled && !rule.Enabled {
		existing, err := uc.repo.GetEnabledByProduct(companyID, rule.ProductID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != rule.ID {
			return nil, domain.ErrRuleAlreadyEnabled
		}
	}
	if err := uc.repo.SetEnabled(id, enabled); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrRuleAlreadyEnabled
		}
		return nil, err
	}
	rule.Enabled = enabled
	rule.UpdatedAt = time.Now()
	return toRuleResponse(rule), nil
}

// List lista las reglas de la empresa con paginación.
func (uc *RuleUseCase) List(companyID string, page dto.PageRequest) ([]*dto.RuleResponse, error) {
	page.DefaultPage()
	rules, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, toRuleResponse(r))
	}
	return out, nil
}

// Delete elimina una regla de la empresa.
func (uc *RuleUseCase) Delete(companyID, id string) error {
	rule, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if rule == nil {
		return domain.ErrNotFound
	}
	if rule.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toRuleResponse(r *entity.ReorderRule) *dto.RuleResponse {
	return &dto.RuleResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		ProductID:        r.ProductID,
		ProviderID:       r.ProviderID,
		TriggerStock:     r.TriggerStock,
		ReorderQty:       r.ReorderQty,
		Enabled:          r.Enabled,
		RequiresApproval: r.RequiresApproval,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
