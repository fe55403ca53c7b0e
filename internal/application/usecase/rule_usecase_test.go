package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

const testCompany = "co-1"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeRuleRepo struct {
	rules map[string]*entity.ReorderRule
}

func newFakeRuleRepo(rules ...*entity.ReorderRule) *fakeRuleRepo {
	m := make(map[string]*entity.ReorderRule)
	for _, r := range rules {
		m[r.ID] = r
	}
	return &fakeRuleRepo{rules: m}
}

func (f *fakeRuleRepo) Create(rule *entity.ReorderRule) error {
	// Simula el índice único parcial (company_id, product_id) WHERE enabled.
	if rule.Enabled {
		for _, r := range f.rules {
			if r.Enabled && r.CompanyID == rule.CompanyID && r.ProductID == rule.ProductID {
				return domain.ErrDuplicate
			}
		}
	}
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepo) GetByID(id string) (*entity.ReorderRule, error) {
	r, ok := f.rules[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRuleRepo) GetEnabledByProduct(companyID, productID string) (*entity.ReorderRule, error) {
	for _, r := range f.rules {
		if r.Enabled && r.CompanyID == companyID && r.ProductID == productID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRuleRepo) Update(rule *entity.ReorderRule) error {
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepo) SetEnabled(id string, enabled bool) error {
	r, ok := f.rules[id]
	if !ok {
		return domain.ErrNotFound
	}
	if enabled {
		for _, other := range f.rules {
			if other.ID != id && other.Enabled && other.CompanyID == r.CompanyID && other.ProductID == r.ProductID {
				return domain.ErrDuplicate
			}
		}
	}
	r.Enabled = enabled
	return nil
}

func (f *fakeRuleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReorderRule, error) {
	var out []*entity.ReorderRule
	for _, r := range f.rules {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) Delete(id string) error {
	delete(f.rules, id)
	return nil
}

type stubProductRepo struct{ products map[string]*entity.Product }

func (s *stubProductRepo) Create(*entity.Product) error { return nil }
func (s *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	return s.products[id], nil
}
func (s *stubProductRepo) GetByCompanyAndSKU(string, string) (*entity.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) Update(*entity.Product) error { return nil }
func (s *stubProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) Delete(string) error { return nil }
func (s *stubProductRepo) AdjustStock(_ context.Context, productID string, delta int64) error {
	return nil
}

type stubProviderRepo struct{ providers map[string]*entity.Provider }

func (s *stubProviderRepo) Create(*entity.Provider) error { return nil }
func (s *stubProviderRepo) GetByID(id string) (*entity.Provider, error) {
	return s.providers[id], nil
}
func (s *stubProviderRepo) Update(*entity.Provider) error { return nil }
func (s *stubProviderRepo) ListByCompany(string, int, int) ([]*entity.Provider, error) {
	return nil, nil
}
func (s *stubProviderRepo) Delete(string) error { return nil }

func buildRuleUseCase(rules ...*entity.ReorderRule) (*RuleUseCase, *fakeRuleRepo) {
	repo := newFakeRuleRepo(rules...)
	products := &stubProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", CompanyID: testCompany, SKU: "SKU-1", Name: "Tornillo"},
	}}
	providers := &stubProviderRepo{providers: map[string]*entity.Provider{
		"prov-1": {ID: "prov-1", CompanyID: testCompany, Name: "Ferretería Central"},
	}}
	return NewRuleUseCase(repo, products, providers), repo
}

func enabledRule(id, productID string) *entity.ReorderRule {
	return &entity.ReorderRule{
		ID:           id,
		CompanyID:    testCompany,
		ProductID:    productID,
		ProviderID:   "prov-1",
		TriggerStock: 5,
		ReorderQty:   20,
		Enabled:      true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests — invariante "una sola regla habilitada por producto"
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRule_SegundaHabilitadaRechazada(t *testing.T) {
	uc, _ := buildRuleUseCase(enabledRule("rule-1", "prod-1"))

	_, err := uc.Create(testCompany, dto.CreateRuleRequest{
		ProductID:    "prod-1",
		ProviderID:   "prov-1",
		TriggerStock: 10,
		ReorderQty:   50,
		Enabled:      true,
	})
	assert.ErrorIs(t, err, domain.ErrRuleAlreadyEnabled)
}

func TestCreateRule_DeshabilitadaConviveConHabilitada(t *testing.T) {
	uc, repo := buildRuleUseCase(enabledRule("rule-1", "prod-1"))

	out, err := uc.Create(testCompany, dto.CreateRuleRequest{
		ProductID:    "prod-1",
		ProviderID:   "prov-1",
		TriggerStock: 10,
		ReorderQty:   50,
		Enabled:      false,
	})
	require.NoError(t, err)
	assert.False(t, out.Enabled)
	assert.Len(t, repo.rules, 2)
}

func TestSetEnabled_RechazaSegundaHabilitada(t *testing.T) {
	disabled := enabledRule("rule-2", "prod-1")
	disabled.Enabled = false
	uc, _ := buildRuleUseCase(enabledRule("rule-1", "prod-1"), disabled)

	_, err := uc.SetEnabled(testCompany, "rule-2", true)
	assert.ErrorIs(t, err, domain.ErrRuleAlreadyEnabled)
}

func TestSetEnabled_ReHabilitarTrasDeshabilitar(t *testing.T) {
	disabled := enabledRule("rule-2", "prod-1")
	disabled.Enabled = false
	uc, _ := buildRuleUseCase(enabledRule("rule-1", "prod-1"), disabled)

	_, err := uc.SetEnabled(testCompany, "rule-1", false)
	require.NoError(t, err)

	out, err := uc.SetEnabled(testCompany, "rule-2", true)
	require.NoError(t, err)
	assert.True(t, out.Enabled)
}

func TestCreateRule_ValidaCantidades(t *testing.T) {
	uc, _ := buildRuleUseCase()

	_, err := uc.Create(testCompany, dto.CreateRuleRequest{
		ProductID:    "prod-1",
		ProviderID:   "prov-1",
		TriggerStock: 5,
		ReorderQty:   0, // inválido: debe ser > 0
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
