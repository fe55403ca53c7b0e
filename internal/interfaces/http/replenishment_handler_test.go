package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	apphttp "github.com/tu-usuario/compras-pro/internal/interfaces/http"
)

const testTriggerSecret = "super-secreto-de-trigger"

// fakeRunner registra con qué tenant se invocó y devuelve resultados fijos.
type fakeRunner struct {
	ranCompany string
	ranAll     bool
	result     dto.RunResult
}

func (f *fakeRunner) Run(_ context.Context, companyID string) dto.RunResult {
	f.ranCompany = companyID
	return f.result
}

func (f *fakeRunner) RunAll(_ context.Context) dto.RunResult {
	f.ranAll = true
	return f.result
}

func buildTriggerApp(runner *fakeRunner) *fiber.App {
	app := fiber.New()
	h := apphttp.NewReplenishmentHandler(runner, testTriggerSecret)
	app.Post("/api/replenishment/run", h.TriggerPost)
	app.Get("/api/replenishment/run", h.TriggerCron)
	return app
}

func TestTriggerPost_ConSecretoCorreTodosLosTenants(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{Success: true, OrdersCreated: 2}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/replenishment/run", nil)
	req.Header.Set("Authorization", "Bearer "+testTriggerSecret)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, runner.ranAll, "sin company_id debe correr todos los tenants")

	var out dto.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.OrdersCreated)
}

func TestTriggerPost_ConCompanyIDCorreUnTenant(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{Success: true}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/replenishment/run?company_id=co-9", nil)
	req.Header.Set("Authorization", "Bearer "+testTriggerSecret)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "co-9", runner.ranCompany)
	assert.False(t, runner.ranAll)
}

func TestTriggerPost_SecretoIncorrecto_Retorna401(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{Success: true}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/replenishment/run", nil)
	req.Header.Set("Authorization", "Bearer secreto-equivocado")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, runner.ranAll, "no debe correr el motor sin autorización")
	assert.Empty(t, runner.ranCompany)
}

func TestTriggerPost_SinHeader_Retorna401(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{Success: true}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/replenishment/run", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTriggerCron_ConCabeceraDePlataforma(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{Success: true}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodGet, "/api/replenishment/run", nil)
	req.Header.Set("X-Appengine-Cron", "true")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, runner.ranAll)
}

func TestTriggerCron_SinCabeceraNiSecreto_Retorna401(t *testing.T) {
	// La plataforma despoja X-Appengine-Cron del tráfico externo, así que una
	// petición sin ella viene de afuera y debe traer el secreto.
	runner := &fakeRunner{result: dto.RunResult{Success: true}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodGet, "/api/replenishment/run", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, runner.ranAll)
}

func TestTriggerCron_SinCabeceraConSecretoValido(t *testing.T) {
	// Un operador (o un cron externo a la plataforma) puede usar GET con el
	// mismo Bearer del disparo manual.
	runner := &fakeRunner{result: dto.RunResult{Success: true, OrdersCreated: 1}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodGet, "/api/replenishment/run", nil)
	req.Header.Set("Authorization", "Bearer "+testTriggerSecret)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, runner.ranAll)
}

func TestTriggerPost_SinSecretoConfigurado_QuedaAbierto(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{Success: true}}
	app := fiber.New()
	h := apphttp.NewReplenishmentHandler(runner, "")
	app.Post("/api/replenishment/run", h.TriggerPost)

	req := httptest.NewRequest(http.MethodPost, "/api/replenishment/run", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, runner.ranAll)
}

func TestTrigger_FallaDeLectura_Retorna500ConResumen(t *testing.T) {
	runner := &fakeRunner{result: dto.RunResult{
		Success: false,
		Errors:  []string{"snapshot products: conexión rechazada"},
		Message: "corrida abortada por falla de lectura",
	}}
	app := buildTriggerApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/replenishment/run", nil)
	req.Header.Set("Authorization", "Bearer "+testTriggerSecret)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out dto.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Errors, "el resumen viaja completo incluso en falla")
}
