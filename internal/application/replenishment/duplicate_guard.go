package replenishment

import (
	"context"
	"fmt"
	"time"
)

// DuplicateGuard filtra líneas ya cubiertas por una orden abierta del mismo
// (provider_id, product_id) dentro de la ventana de generación (día calendario
// local del tenant). El disparo llega por varias vías sin lock externo
// (POST manual, GET del cron de plataforma, timer interno); sin este filtro
// cada invocación repetida generaría órdenes duplicadas.
//
// Es un prefiltro barato: la garantía autoritativa es el índice único que
// aplica el OrderStore al escribir.
type DuplicateGuard struct {
	store OrderStore
}

// NewDuplicateGuard construye el guard.
func NewDuplicateGuard(store OrderStore) *DuplicateGuard {
	return &DuplicateGuard{store: store}
}

// Filter devuelve las líneas no cubiertas y cuántas se omitieron. Una línea se
// omite si cualquier orden abierta ya contiene ese producto de ese proveedor en
// esa fecha, sin importar la cantidad. La falla de lectura es fatal: correr sin
// el guard rompería la idempotencia de la corrida.
func (g *DuplicateGuard) Filter(ctx context.Context, companyID string, date time.Time, lines []TriggeredLine) ([]TriggeredLine, int, error) {
	if len(lines) == 0 {
		return lines, 0, nil
	}
	covered, err := g.store.OpenLineKeys(ctx, companyID, date)
	if err != nil {
		return nil, 0, fmt.Errorf("leer órdenes abiertas de la ventana: %w", err)
	}

	kept := make([]TriggeredLine, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		if _, ok := covered[LineKey{ProviderID: line.ProviderID, ProductID: line.ProductID}]; ok {
			skipped++
			continue
		}
		kept = append(kept, line)
	}
	return kept, skipped, nil
}
