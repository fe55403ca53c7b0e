package replenishment

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

// Runner orquesta una pasada completa del motor de reposición:
// evaluar → filtrar duplicados → agrupar por proveedor → persistir → resumir.
// Cada corrida es síncrona y de una sola pasada; la repetición la dispara un
// colaborador externo (timer del proceso, cron de plataforma, POST manual) y
// varias corridas pueden solaparse sin coordinación: la corrección ante esa
// carrera recae en el DuplicateGuard más el índice único del OrderStore.
type Runner struct {
	evaluator  *RuleEvaluator
	guard      *DuplicateGuard
	aggregator OrderAggregator
	persister  *OrderPersister
	companies  CompanyLister
	loc        *time.Location
	log        *logger.Logger
	now        func() time.Time // inyectable en tests
}

// NewRunner arma el pipeline con las proyecciones y el store dados.
// loc define el día calendario local del tenant (ventana de generación).
func NewRunner(
	snapshot StockSnapshot,
	catalog RuleCatalog,
	store OrderStore,
	companies CompanyLister,
	loc *time.Location,
	log *logger.Logger,
) *Runner {
	return &Runner{
		evaluator: NewRuleEvaluator(snapshot, catalog, log),
		guard:     NewDuplicateGuard(store),
		persister: NewOrderPersister(store, log),
		companies: companies,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// Run ejecuta una corrida para un tenant y devuelve el resumen estructurado.
// Solo las fallas de lectura producen Success=false; las fallas de escritura
// por proveedor quedan en Errors con el resto de la corrida completada.
func (r *Runner) Run(ctx context.Context, companyID string) dto.RunResult {
	started := r.now()
	date := r.generationDate(started)

	result := dto.RunResult{Success: true, Errors: []string{}, Timestamp: started}

	lines, evaluated, err := r.evaluator.Evaluate(ctx, companyID)
	if err != nil {
		r.log.Error().Err(err).Str("company_id", companyID).Msg("corrida de reposición abortada")
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		result.Message = "corrida abortada por falla de lectura"
		return result
	}
	result.RulesEvaluated = evaluated
	result.Triggered = len(lines)

	kept, skipped, err := r.guard.Filter(ctx, companyID, date, lines)
	if err != nil {
		r.log.Error().Err(err).Str("company_id", companyID).Msg("corrida de reposición abortada")
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		result.Message = "corrida abortada por falla de lectura"
		return result
	}
	result.SkippedDuplicate = skipped

	drafts := r.aggregator.Aggregate(companyID, date, kept)
	created, skippedAtWrite, errs := r.persister.Persist(ctx, drafts)
	result.OrdersCreated = created
	result.SkippedDuplicate += skippedAtWrite
	result.Errors = append(result.Errors, errs...)

	result.Message = fmt.Sprintf(
		"%d reglas evaluadas, %d disparadas, %d duplicadas omitidas, %d órdenes creadas",
		result.RulesEvaluated, result.Triggered, result.SkippedDuplicate, result.OrdersCreated,
	)
	r.log.Info().
		Str("company_id", companyID).
		Int("rules_evaluated", result.RulesEvaluated).
		Int("triggered", result.Triggered).
		Int("skipped_duplicate", result.SkippedDuplicate).
		Int("orders_created", result.OrdersCreated).
		Int("errors", len(result.Errors)).
		Msg("corrida de reposición finalizada")
	return result
}

// RunAll corre el motor para todos los tenants activos y acumula el resumen.
func (r *Runner) RunAll(ctx context.Context) dto.RunResult {
	merged := dto.RunResult{Success: true, Errors: []string{}, Timestamp: r.now()}

	ids, err := r.companies.ListActiveIDs(ctx)
	if err != nil {
		merged.Success = false
		merged.Errors = append(merged.Errors, fmt.Sprintf("listar tenants activos: %v", err))
		merged.Message = "corrida abortada por falla de lectura"
		return merged
	}

	for _, companyID := range ids {
		merged.Merge(r.Run(ctx, companyID))
	}
	merged.Message = fmt.Sprintf(
		"%d tenants: %d reglas evaluadas, %d disparadas, %d duplicadas omitidas, %d órdenes creadas",
		len(ids), merged.RulesEvaluated, merged.Triggered, merged.SkippedDuplicate, merged.OrdersCreated,
	)
	return merged
}

// generationDate trunca el instante al día calendario en la zona del tenant.
func (r *Runner) generationDate(t time.Time) time.Time {
	local := t.In(r.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc)
}
