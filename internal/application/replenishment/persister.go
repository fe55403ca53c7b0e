package replenishment

import (
	"context"
	"errors"
	"fmt"

	"github.com/tu-usuario/compras-pro/internal/domain"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

// OrderPersister escribe los borradores aislando fallas por proveedor: un
// insert fallido no aborta ni revierte las órdenes de los demás proveedores.
// Cada escritura es un insert atómico (orden + líneas, todo o nada).
type OrderPersister struct {
	store OrderStore
	log   *logger.Logger
}

// NewOrderPersister construye el persister.
func NewOrderPersister(store OrderStore, log *logger.Logger) *OrderPersister {
	return &OrderPersister{store: store, log: log}
}

// Persist intenta crear cada borrador. Un choque con el índice único de
// deduplicación (corrida concurrente que ganó la carrera) es un resultado
// esperado: sus líneas se cuentan como duplicadas omitidas, no como error.
func (p *OrderPersister) Persist(ctx context.Context, drafts []*entity.GeneratedOrder) (created, skippedDup int, errs []string) {
	for _, draft := range drafts {
		err := p.store.Create(ctx, draft)
		if err == nil {
			created++
			p.log.Info().
				Str("company_id", draft.CompanyID).
				Str("provider_id", draft.ProviderID).
				Str("order_id", draft.ID).
				Int("lines", len(draft.Lines)).
				Str("total_estimate", draft.TotalEstimate.String()).
				Msg("orden de compra generada")
			continue
		}
		if errors.Is(err, domain.ErrDuplicate) {
			skippedDup += len(draft.Lines)
			p.log.Debug().
				Str("company_id", draft.CompanyID).
				Str("provider_id", draft.ProviderID).
				Msg("orden ya generada por corrida concurrente")
			continue
		}
		errs = append(errs, fmt.Sprintf("proveedor %s: %v", draft.ProviderID, err))
		p.log.Error().Err(err).
			Str("company_id", draft.CompanyID).
			Str("provider_id", draft.ProviderID).
			Msg("falla al persistir orden generada")
	}
	return created, skippedDup, errs
}
