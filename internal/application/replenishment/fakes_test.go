package replenishment_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/compras-pro/internal/application/replenishment"
	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos del motor
// ──────────────────────────────────────────────────────────────────────────────

type fakeSnapshot struct {
	products map[string]map[string]replenishment.ProductStock // companyID → productID → stock
	err      error
}

func (f *fakeSnapshot) Snapshot(_ context.Context, companyID string) (map[string]replenishment.ProductStock, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products[companyID], nil
}

type fakeCatalog struct {
	rules map[string][]replenishment.CatalogRule // companyID → reglas habilitadas
	err   error
}

func (f *fakeCatalog) EnabledRules(_ context.Context, companyID string) ([]replenishment.CatalogRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules[companyID], nil
}

// fakeStore guarda órdenes en memoria y simula el índice único de deduplicación:
// un Create que comparta (provider, product, fecha) con una orden abierta
// existente retorna domain.ErrDuplicate sin insertar nada.
type fakeStore struct {
	mu            sync.Mutex
	orders        []*entity.GeneratedOrder
	failProviders map[string]error // provider_id → error de escritura simulado
	dupProviders  map[string]bool  // provider_id → forzar choque de índice único
	keysErr       error
}

func (f *fakeStore) OpenLineKeys(_ context.Context, companyID string, date time.Time) (map[replenishment.LineKey]struct{}, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make(map[replenishment.LineKey]struct{})
	for _, o := range f.orders {
		if o.CompanyID != companyID || !entity.IsOpen(o.Status) || !o.GenerationDate.Equal(date) {
			continue
		}
		for _, l := range o.Lines {
			keys[replenishment.LineKey{ProviderID: o.ProviderID, ProductID: l.ProductID}] = struct{}{}
		}
	}
	return keys, nil
}

func (f *fakeStore) Create(_ context.Context, order *entity.GeneratedOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failProviders[order.ProviderID]; ok {
		return err
	}
	if f.dupProviders[order.ProviderID] {
		return domain.ErrDuplicate
	}
	for _, o := range f.orders {
		if o.CompanyID != order.CompanyID || o.ProviderID != order.ProviderID ||
			!entity.IsOpen(o.Status) || !o.GenerationDate.Equal(order.GenerationDate) {
			continue
		}
		for _, existing := range o.Lines {
			for _, incoming := range order.Lines {
				if existing.ProductID == incoming.ProductID {
					return domain.ErrDuplicate
				}
			}
		}
	}
	f.orders = append(f.orders, order)
	return nil
}

type fakeCompanies struct {
	ids []string
	err error
}

func (f *fakeCompanies) ListActiveIDs(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de datos
// ──────────────────────────────────────────────────────────────────────────────

func stock(id, sku, name string, qty int64, price string) replenishment.ProductStock {
	return replenishment.ProductStock{
		ProductID: id,
		SKU:       sku,
		Name:      name,
		Stock:     qty,
		Price:     decimal.RequireFromString(price),
	}
}

func rule(id, productID, providerID string, trigger, qty int64, approval bool) replenishment.CatalogRule {
	return replenishment.CatalogRule{
		RuleID:           id,
		ProductID:        productID,
		ProviderID:       providerID,
		TriggerStock:     trigger,
		ReorderQty:       qty,
		RequiresApproval: approval,
	}
}
