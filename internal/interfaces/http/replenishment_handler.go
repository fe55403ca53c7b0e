package http

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
)

// ReplenishmentRunner es lo que el handler necesita del motor.
type ReplenishmentRunner interface {
	Run(ctx context.Context, companyID string) dto.RunResult
	RunAll(ctx context.Context) dto.RunResult
}

// ReplenishmentHandler expone el disparo manual y programado del motor.
type ReplenishmentHandler struct {
	runner        ReplenishmentRunner
	triggerSecret string
}

// NewReplenishmentHandler construye el handler. triggerSecret protege el
// disparo manual; vacío deja el disparo abierto (solo para entornos locales).
func NewReplenishmentHandler(runner ReplenishmentRunner, triggerSecret string) *ReplenishmentHandler {
	return &ReplenishmentHandler{runner: runner, triggerSecret: triggerSecret}
}

// TriggerPost godoc
// @Summary      Disparar corrida de reposición (manual)
// @Description  Requiere Authorization Bearer con el secreto de trigger. company_id opcional; sin él corre todos los tenants.
// @Tags         replenishment
// @Produce      json
// @Param        company_id  query  string  false  "Tenant a correr"
// @Success      200  {object}  dto.RunResult
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.RunResult
// @Router       /api/replenishment/run [post]
func (h *ReplenishmentHandler) TriggerPost(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "secreto de trigger inválido"})
	}
	return h.run(c)
}

// TriggerCron godoc
// @Summary      Disparar corrida de reposición (cron de plataforma)
// @Description  Acepta peticiones con la cabecera X-Appengine-Cron que la plataforma agrega y despoja del tráfico externo; sin ella aplica el mismo Bearer del disparo manual.
// @Tags         replenishment
// @Produce      json
// @Param        company_id  query  string  false  "Tenant a correr"
// @Success      200  {object}  dto.RunResult
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.RunResult
// @Router       /api/replenishment/run [get]
func (h *ReplenishmentHandler) TriggerCron(c *fiber.Ctx) error {
	// La cabecera de plataforma es confiable porque el proxy la despoja del
	// tráfico externo. Sin ella, el GET exige el mismo secreto que el POST.
	if c.Get("X-Appengine-Cron") == "true" {
		return h.run(c)
	}
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "se requiere cabecera de cron o secreto de trigger"})
	}
	return h.run(c)
}

func (h *ReplenishmentHandler) run(c *fiber.Ctx) error {
	var result dto.RunResult
	if companyID := c.Query("company_id"); companyID != "" {
		result = h.runner.Run(c.Context(), companyID)
	} else {
		result = h.runner.RunAll(c.Context())
	}
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

// authorized compara el Bearer contra el secreto en tiempo constante.
// Sin secreto configurado el disparo queda abierto.
func (h *ReplenishmentHandler) authorized(c *fiber.Ctx) bool {
	if h.triggerSecret == "" {
		return true
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	token := strings.TrimSpace(parts[1])
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.triggerSecret)) == 1
}
