package replenishment

import (
	"context"
	"fmt"

	"github.com/tu-usuario/compras-pro/pkg/logger"
)

// RuleEvaluator cruza el snapshot de stock con el catálogo de reglas habilitadas
// y determina qué productos deben reponerse. La cantidad es siempre la
// ReorderQty configurada en la regla (reposición de cantidad fija, no déficit).
type RuleEvaluator struct {
	snapshot StockSnapshot
	catalog  RuleCatalog
	log      *logger.Logger
}

// NewRuleEvaluator construye el evaluador.
func NewRuleEvaluator(snapshot StockSnapshot, catalog RuleCatalog, log *logger.Logger) *RuleEvaluator {
	return &RuleEvaluator{snapshot: snapshot, catalog: catalog, log: log}
}

// Evaluate devuelve las líneas disparadas (stock < trigger_stock) y el total de
// reglas evaluadas. Una falla de lectura aborta la corrida completa: no hay
// evaluación parcial.
func (e *RuleEvaluator) Evaluate(ctx context.Context, companyID string) ([]TriggeredLine, int, error) {
	products, err := e.snapshot.Snapshot(ctx, companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("leer snapshot de stock: %w", err)
	}
	rules, err := e.catalog.EnabledRules(ctx, companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("leer catálogo de reglas: %w", err)
	}

	lines := make([]TriggeredLine, 0, len(rules))
	for _, rule := range rules {
		// trigger_stock == 0 nunca dispara (el stock no puede ser negativo):
		// regla efectivamente deshabilitada. Aviso no fatal.
		if rule.TriggerStock == 0 {
			e.log.Warn().
				Str("company_id", companyID).
				Str("rule_id", rule.RuleID).
				Str("product_id", rule.ProductID).
				Msg("regla con trigger_stock=0 nunca dispara")
			continue
		}
		p, ok := products[rule.ProductID]
		if !ok {
			// Regla apuntando a un producto borrado: se cuenta como evaluada.
			e.log.Warn().
				Str("company_id", companyID).
				Str("rule_id", rule.RuleID).
				Str("product_id", rule.ProductID).
				Msg("regla sin producto en el snapshot")
			continue
		}
		if p.Stock < rule.TriggerStock {
			lines = append(lines, TriggeredLine{
				ProductID:        rule.ProductID,
				ProviderID:       rule.ProviderID,
				Qty:              rule.ReorderQty,
				RequiresApproval: rule.RequiresApproval,
				UnitPrice:        p.Price,
				ProductName:      p.Name,
				ProductCode:      p.SKU,
			})
		}
	}
	return lines, len(rules), nil
}
