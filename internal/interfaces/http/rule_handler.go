package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/compras-pro/internal/application/dto"
	"github.com/tu-usuario/compras-pro/internal/application/usecase"
	"github.com/tu-usuario/compras-pro/internal/domain"
)

// RuleHandler maneja las peticiones HTTP para ReorderRule (protegido).
type RuleHandler struct {
	uc *usecase.RuleUseCase
}

// NewRuleHandler construye el handler.
func NewRuleHandler(uc *usecase.RuleUseCase) *RuleHandler {
	return &RuleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear regla de reposición
// @Tags         rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRuleRequest  true  "Datos de la regla"
// @Success      201   {object}  dto.RuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rules [post]
func (h *RuleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return ruleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener regla por ID
// @Tags         rules
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la regla"
// @Success      200  {object}  dto.RuleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rules/{id} [get]
func (h *RuleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return ruleError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "regla no encontrada"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar regla
// @Tags         rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la regla"
// @Param        body  body  dto.UpdateRuleRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.RuleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rules/{id} [put]
func (h *RuleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return ruleError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "regla no encontrada"})
	}
	return c.JSON(out)
}

// SetEnabled godoc
// @Summary      Habilitar o deshabilitar regla
// @Tags         rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la regla"
// @Param        body  body  object{enabled=bool}  true  "Flag"
// @Success      200   {object}  dto.RuleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rules/{id}/enabled [put]
func (h *RuleHandler) SetEnabled(c *fiber.Ctx) error {
	var in struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetEnabled(GetCompanyID(c), c.Params("id"), in.Enabled)
	if err != nil {
		return ruleError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "regla no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar reglas
// @Tags         rules
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.RuleResponse
// @Router       /api/rules [get]
func (h *RuleHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(GetCompanyID(c), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar regla
// @Tags         rules
// @Security     Bearer
// @Param        id   path  string  true  "ID de la regla"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rules/{id} [delete]
func (h *RuleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "regla no encontrada"})
		}
		return ruleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ruleError mapea errores de dominio de reglas a respuestas HTTP.
func ruleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrRuleAlreadyEnabled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RULE_ALREADY_ENABLED", Message: "el producto ya tiene una regla habilitada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "trigger_stock >= 0 y reorder_qty > 0 son requeridos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "producto o proveedor no existe en esta empresa"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "regla de otra empresa"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
