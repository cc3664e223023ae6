package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/application/usecase"
)

// BusinessHandler onboarding, ajustes y configuración fiscal del negocio.
type BusinessHandler struct {
	uc      *usecase.BusinessUseCase
	modules *usecase.ModuleService
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase, modules *usecase.ModuleService) *BusinessHandler {
	return &BusinessHandler{uc: uc, modules: modules}
}

// Onboard godoc
// @Summary      Crear negocio y usuario propietario
// @Tags         business
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "Negocio y propietario"
// @Success      201   {object}  dto.OnboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/businesses [post]
func (h *BusinessHandler) Onboard(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Onboard(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/business
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), businessID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/business (solo admin). Cambiar forma o régimen reclasifica el negocio.
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateBusinessRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), businessID, in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// TaxConfig godoc
// @Summary      Módulos fiscales, pie de factura y menciones legales
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TaxConfigResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/business/tax-config [get]
func (h *BusinessHandler) TaxConfig(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.TaxConfiguration(c.UserContext(), businessID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// TaxRates godoc
// @Summary      Tasas aplicables al régimen del negocio
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Param        at  query  string  false  "Fecha de vigencia YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.TaxRatesResponse
// @Router       /api/business/tax-rates [get]
func (h *BusinessHandler) TaxRates(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	at := time.Now()
	if s := c.Query("at"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "at debe tener formato YYYY-MM-DD"})
		}
		at = t
	}
	out, err := h.uc.ApplicableRates(c.UserContext(), businessID, at)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Modules GET /api/business/modules
func (h *BusinessHandler) Modules(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	out, err := h.modules.List(c.UserContext(), businessID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
