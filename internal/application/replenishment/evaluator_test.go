package replenishment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/compras-pro/internal/application/replenishment"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

const testCompany = "co-1"

// Propiedad de umbral: dispara solo cuando stock < trigger_stock, con la
// cantidad fija de la regla (no el déficit).
func TestEvaluator_DisparaBajoUmbralConCantidadFija(t *testing.T) {
	snap := &fakeSnapshot{products: map[string]map[string]replenishment.ProductStock{
		testCompany: {
			"prod-a": stock("prod-a", "SKU-A", "Tornillos", 3, "1200.50"),
			"prod-b": stock("prod-b", "SKU-B", "Tuercas", 10, "800"),
		},
	}}
	cat := &fakeCatalog{rules: map[string][]replenishment.CatalogRule{
		testCompany: {
			rule("r-a", "prod-a", "prov-1", 10, 50, false),
			rule("r-b", "prod-b", "prov-1", 10, 20, false), // stock == trigger: no dispara
		},
	}}

	ev := replenishment.NewRuleEvaluator(snap, cat, logger.Nop())
	lines, evaluated, err := ev.Evaluate(context.Background(), testCompany)
	require.NoError(t, err)

	assert.Equal(t, 2, evaluated)
	require.Len(t, lines, 1, "solo prod-a está bajo el umbral (3 < 10); 10 < 10 es falso")
	assert.Equal(t, "prod-a", lines[0].ProductID)
	assert.Equal(t, "prov-1", lines[0].ProviderID)
	assert.Equal(t, int64(50), lines[0].Qty, "la cantidad es la reorder_qty de la regla, no el déficit")
	assert.Equal(t, "SKU-A", lines[0].ProductCode)
	assert.Equal(t, "Tornillos", lines[0].ProductName)
	assert.Equal(t, "1200.5", lines[0].UnitPrice.String())
}

// Una regla con trigger_stock=0 nunca dispara (stock >= 0 siempre); se cuenta
// como evaluada pero no genera línea.
func TestEvaluator_TriggerCeroNuncaDispara(t *testing.T) {
	snap := &fakeSnapshot{products: map[string]map[string]replenishment.ProductStock{
		testCompany: {"prod-a": stock("prod-a", "SKU-A", "Tornillos", 0, "100")},
	}}
	cat := &fakeCatalog{rules: map[string][]replenishment.CatalogRule{
		testCompany: {rule("r-a", "prod-a", "prov-1", 0, 50, false)},
	}}

	ev := replenishment.NewRuleEvaluator(snap, cat, logger.Nop())
	lines, evaluated, err := ev.Evaluate(context.Background(), testCompany)
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)
	assert.Empty(t, lines)
}

// Una regla cuyo producto ya no existe en el snapshot se omite sin abortar.
func TestEvaluator_ReglaSinProductoSeOmite(t *testing.T) {
	snap := &fakeSnapshot{products: map[string]map[string]replenishment.ProductStock{
		testCompany: {},
	}}
	cat := &fakeCatalog{rules: map[string][]replenishment.CatalogRule{
		testCompany: {rule("r-x", "prod-borrado", "prov-1", 10, 5, false)},
	}}

	ev := replenishment.NewRuleEvaluator(snap, cat, logger.Nop())
	lines, evaluated, err := ev.Evaluate(context.Background(), testCompany)
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)
	assert.Empty(t, lines)
}

// Falla de lectura: aborta sin evaluación parcial.
func TestEvaluator_FallaDeLecturaEsFatal(t *testing.T) {
	snap := &fakeSnapshot{err: errors.New("db caída")}
	cat := &fakeCatalog{}

	ev := replenishment.NewRuleEvaluator(snap, cat, logger.Nop())
	lines, evaluated, err := ev.Evaluate(context.Background(), testCompany)
	assert.Error(t, err)
	assert.Zero(t, evaluated)
	assert.Nil(t, lines)
}
