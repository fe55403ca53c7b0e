package replenishment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
)

// Proyecciones de solo lectura del motor. Forma fija, desacoplada de la
// consulta concreta que las produzca.

// ProductStock es la vista de stock y precio de un producto al momento de evaluar.
type ProductStock struct {
	ProductID string
	SKU       string
	Name      string
	Stock     int64
	Price     decimal.Decimal
}

// StockSnapshot lee el stock actual de todos los productos del tenant.
type StockSnapshot interface {
	Snapshot(ctx context.Context, companyID string) (map[string]ProductStock, error)
}

// CatalogRule es la vista de una regla de reposición habilitada.
type CatalogRule struct {
	RuleID           string
	ProductID        string
	ProviderID       string
	TriggerStock     int64
	ReorderQty       int64
	RequiresApproval bool
}

// RuleCatalog lee las reglas habilitadas del tenant.
type RuleCatalog interface {
	EnabledRules(ctx context.Context, companyID string) ([]CatalogRule, error)
}

// LineKey identifica una línea dentro de la ventana de generación.
type LineKey struct {
	ProviderID string
	ProductID  string
}

// OrderStore persiste borradores de orden y expone las líneas ya cubiertas
// por órdenes abiertas (pending_review o sent) en la fecha de generación.
// Create debe ser atómico (orden + líneas, todo o nada) y retornar
// domain.ErrDuplicate ante el índice único de deduplicación.
type OrderStore interface {
	OpenLineKeys(ctx context.Context, companyID string, date time.Time) (map[LineKey]struct{}, error)
	Create(ctx context.Context, order *entity.GeneratedOrder) error
}

// CompanyLister enumera los tenants activos para corridas "all tenants".
type CompanyLister interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// TriggeredLine es un producto cuyo stock cayó bajo el umbral de su regla,
// con la cantidad fija a pedir y el snapshot de identidad/precio del producto.
type TriggeredLine struct {
	ProductID        string
	ProviderID       string
	Qty              int64
	RequiresApproval bool
	UnitPrice        decimal.Decimal
	ProductName      string
	ProductCode      string
}
