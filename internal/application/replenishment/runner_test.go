package replenishment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/compras-pro/internal/application/replenishment"
	"github.com/tu-usuario/compras-pro/internal/domain/entity"
	"github.com/tu-usuario/compras-pro/pkg/logger"
)

// buildRunner arma un runner contra los fakes, con día calendario en UTC.
func buildRunner(snap *fakeSnapshot, cat *fakeCatalog, store *fakeStore, companies *fakeCompanies) *replenishment.Runner {
	return replenishment.NewRunner(snap, cat, store, companies, time.UTC, logger.Nop())
}

// Escenario del caso típico: A (stock 3, trigger 10, qty 50) y B (stock 1,
// trigger 5, qty 20) comparten prov-1; C está sobre el umbral de su regla
// deshabilitada (el catálogo solo entrega habilitadas). Una corrida → una
// orden para prov-1 con dos líneas; C no produce nada.
func escenarioBase() (*fakeSnapshot, *fakeCatalog, *fakeStore) {
	snap := &fakeSnapshot{products: map[string]map[string]replenishment.ProductStock{
		testCompany: {
			"prod-a": stock("prod-a", "SKU-A", "Tornillos", 3, "1000"),
			"prod-b": stock("prod-b", "SKU-B", "Tuercas", 1, "500"),
			"prod-c": stock("prod-c", "SKU-C", "Arandelas", 20, "50"),
		},
	}}
	cat := &fakeCatalog{rules: map[string][]replenishment.CatalogRule{
		testCompany: {
			rule("r-a", "prod-a", "prov-1", 10, 50, false),
			rule("r-b", "prod-b", "prov-1", 5, 20, false),
			// la regla de prod-c está deshabilitada: no aparece en el catálogo
		},
	}}
	return snap, cat, &fakeStore{}
}

func TestRunner_EscenarioEjemplo(t *testing.T) {
	snap, cat, store := escenarioBase()
	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})

	result := runner.Run(context.Background(), testCompany)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RulesEvaluated)
	assert.Equal(t, 2, result.Triggered)
	assert.Equal(t, 0, result.SkippedDuplicate)
	assert.Equal(t, 1, result.OrdersCreated, "A y B comparten proveedor: una sola orden")
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Message)
	assert.False(t, result.Timestamp.IsZero())

	require.Len(t, store.orders, 1)
	order := store.orders[0]
	assert.Equal(t, "prov-1", order.ProviderID)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, int64(50), order.Lines[0].Qty) // prod-a
	assert.Equal(t, int64(20), order.Lines[1].Qty) // prod-b
	// total = 50*1000 + 20*500
	assert.Equal(t, "60000", order.TotalEstimate.String())
	assert.True(t, entity.ComputeTotal(order.Lines).Equal(order.TotalEstimate))
}

// Propiedad de idempotencia: dos corridas seguidas sin cambios de stock ni
// reglas crean las mismas órdenes que una; la segunda reporta cero creadas y
// todas las líneas disparadas como duplicadas omitidas.
func TestRunner_Idempotencia(t *testing.T) {
	snap, cat, store := escenarioBase()
	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})

	first := runner.Run(context.Background(), testCompany)
	require.Equal(t, 1, first.OrdersCreated)

	second := runner.Run(context.Background(), testCompany)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.OrdersCreated)
	assert.Equal(t, second.Triggered, second.SkippedDuplicate,
		"todo lo disparado en la segunda corrida ya estaba cubierto")
	assert.Empty(t, second.Errors)
	assert.Len(t, store.orders, 1, "no se duplican órdenes")
}

// Propiedad de exclusión: deshabilitar la regla saca al producto de la
// siguiente corrida aunque siga bajo el umbral.
func TestRunner_ReglaDeshabilitadaNoGenera(t *testing.T) {
	snap, cat, store := escenarioBase()
	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})

	cat.rules[testCompany] = cat.rules[testCompany][:1] // solo queda la regla de prod-a

	result := runner.Run(context.Background(), testCompany)
	assert.Equal(t, 1, result.Triggered)
	require.Len(t, store.orders, 1)
	require.Len(t, store.orders[0].Lines, 1)
	assert.Equal(t, "prod-a", store.orders[0].Lines[0].ProductID)
}

// Propiedad de aislamiento: la falla de escritura del borrador de un proveedor
// no impide crear el del otro.
func TestRunner_FallaDeEscrituraAisladaPorProveedor(t *testing.T) {
	snap, cat, store := escenarioBase()
	// prod-b pasa a otro proveedor para tener dos borradores
	cat.rules[testCompany][1] = rule("r-b", "prod-b", "prov-2", 5, 20, false)
	store.failProviders = map[string]error{"prov-1": errors.New("timeout de insert")}

	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})
	result := runner.Run(context.Background(), testCompany)

	assert.True(t, result.Success, "falla por proveedor no es fatal")
	assert.Equal(t, 1, result.OrdersCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "prov-1")
	require.Len(t, store.orders, 1)
	assert.Equal(t, "prov-2", store.orders[0].ProviderID)
}

// Un choque con el índice único al escribir (otra corrida ganó la carrera
// entre lectura y escritura) se cuenta como duplicado omitido, no como error.
func TestRunner_ConflictoUnicoAlEscribirNoEsError(t *testing.T) {
	snap, cat, store := escenarioBase()
	// La ventana se ve vacía al leer, pero el insert choca contra el índice:
	// exactamente la carrera entre dos corridas solapadas.
	store.dupProviders = map[string]bool{"prov-1": true}
	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})

	result := runner.Run(context.Background(), testCompany)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.OrdersCreated)
	assert.Equal(t, 2, result.SkippedDuplicate, "las líneas del borrador chocado cuentan como duplicadas")
	assert.Empty(t, result.Errors)
	assert.Empty(t, store.orders)
}

// Falla total de lectura: aborta con success=false y sin órdenes creadas.
func TestRunner_FallaDeLecturaAborta(t *testing.T) {
	snap := &fakeSnapshot{err: errors.New("conexión rechazada")}
	cat := &fakeCatalog{}
	store := &fakeStore{}
	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})

	result := runner.Run(context.Background(), testCompany)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.OrdersCreated)
	require.NotEmpty(t, result.Errors)
	assert.Empty(t, store.orders)
}

// La falla al leer la ventana de deduplicación también aborta: correr sin el
// guard duplicaría órdenes.
func TestRunner_FallaDelGuardAborta(t *testing.T) {
	snap, cat, store := escenarioBase()
	store.keysErr = errors.New("query cancelada")
	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany}})

	result := runner.Run(context.Background(), testCompany)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.OrdersCreated)
	assert.Empty(t, store.orders)
}

// RunAll acumula los resúmenes de todos los tenants activos.
func TestRunner_RunAllAcumulaTenants(t *testing.T) {
	snap, cat, store := escenarioBase()
	const otherCompany = "co-2"
	snap.products[otherCompany] = map[string]replenishment.ProductStock{
		"prod-z": stock("prod-z", "SKU-Z", "Pernos", 2, "300"),
	}
	cat.rules[otherCompany] = []replenishment.CatalogRule{
		rule("r-z", "prod-z", "prov-9", 10, 15, true),
	}

	runner := buildRunner(snap, cat, store, &fakeCompanies{ids: []string{testCompany, otherCompany}})
	result := runner.RunAll(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.RulesEvaluated)
	assert.Equal(t, 3, result.Triggered)
	assert.Equal(t, 2, result.OrdersCreated)
	assert.Len(t, store.orders, 2)
	assert.Contains(t, result.Message, "2 tenants")
}

func TestRunner_RunAllFallaListandoTenants(t *testing.T) {
	snap, cat, store := escenarioBase()
	runner := buildRunner(snap, cat, store, &fakeCompanies{err: errors.New("db caída")})

	result := runner.RunAll(context.Background())
	assert.False(t, result.Success)
	assert.Empty(t, store.orders)
}
