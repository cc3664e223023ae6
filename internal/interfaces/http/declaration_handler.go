package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/application/declaration"
	"github.com/ugcompta/invoiceflow/internal/application/dto"
)

// HeaderFingerprint huella SHA-256 del XML exportado.
const HeaderFingerprint = "X-Declaration-Fingerprint"

// DeclarationHandler G50, G12 y G12bis (módulo declarations).
type DeclarationHandler struct {
	uc *declaration.UseCase
}

// NewDeclarationHandler construye el handler.
func NewDeclarationHandler(uc *declaration.UseCase) *DeclarationHandler {
	return &DeclarationHandler{uc: uc}
}

// G50 godoc
// @Summary      Declaración mensual G50
// @Tags         declarations
// @Security     Bearer
// @Produce      json
// @Param        year               query  int     true   "Año"
// @Param        month              query  int     true   "Mes 1-12"
// @Param        previous_year_ibs  query  string  false  "IBS del ejercicio anterior (acomptes)"
// @Success      200  {object}  dto.G50Response
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/declarations/g50 [get]
func (h *DeclarationHandler) G50(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	req, ok, err := h.g50Request(c)
	if !ok {
		return err
	}
	out, err := h.uc.G50(c.UserContext(), businessID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// G12 GET /api/declarations/g12?year=&forecast_goods=&forecast_services=
func (h *DeclarationHandler) G12(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	req, ok, err := h.g12Request(c)
	if !ok {
		return err
	}
	out, err := h.uc.G12(c.UserContext(), businessID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// G12bis GET /api/declarations/g12bis?year=&g12_paid=
func (h *DeclarationHandler) G12bis(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	req, ok, err := h.g12bisRequest(c)
	if !ok {
		return err
	}
	out, err := h.uc.G12bis(c.UserContext(), businessID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// ExportG50 GET /api/declarations/g50/export: XML canónico con su huella en X-Declaration-Fingerprint.
func (h *DeclarationHandler) ExportG50(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	req, ok, err := h.g50Request(c)
	if !ok {
		return err
	}
	exp, err := h.uc.ExportG50(c.UserContext(), businessID, req)
	if err != nil {
		return handleError(c, err)
	}
	return sendExport(c, exp)
}

// ExportG12 GET /api/declarations/g12/export
func (h *DeclarationHandler) ExportG12(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	req, ok, err := h.g12Request(c)
	if !ok {
		return err
	}
	exp, err := h.uc.ExportG12(c.UserContext(), businessID, req)
	if err != nil {
		return handleError(c, err)
	}
	return sendExport(c, exp)
}

// ExportG12bis GET /api/declarations/g12bis/export
func (h *DeclarationHandler) ExportG12bis(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	req, ok, err := h.g12bisRequest(c)
	if !ok {
		return err
	}
	exp, err := h.uc.ExportG12bis(c.UserContext(), businessID, req)
	if err != nil {
		return handleError(c, err)
	}
	return sendExport(c, exp)
}

func sendExport(c *fiber.Ctx, exp *declaration.Export) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+exp.Filename+`"`)
	c.Set(HeaderFingerprint, exp.Fingerprint)
	return c.Send(exp.XML)
}

func (h *DeclarationHandler) g50Request(c *fiber.Ctx) (dto.G50Request, bool, error) {
	var req dto.G50Request
	if ok, err := parseQuery(c, &req); !ok {
		return req, false, err
	}
	ibs, ok, err := decimalQuery(c, "previous_year_ibs")
	if !ok {
		return req, false, err
	}
	if ibs != nil {
		req.PreviousYearIBS = *ibs
	}
	return req, true, nil
}

func (h *DeclarationHandler) g12Request(c *fiber.Ctx) (dto.G12Request, bool, error) {
	var req dto.G12Request
	if ok, err := parseQuery(c, &req); !ok {
		return req, false, err
	}
	var ok bool
	var err error
	if req.ForecastGoods, ok, err = decimalQuery(c, "forecast_goods"); !ok {
		return req, false, err
	}
	if req.ForecastServices, ok, err = decimalQuery(c, "forecast_services"); !ok {
		return req, false, err
	}
	return req, true, nil
}

func (h *DeclarationHandler) g12bisRequest(c *fiber.Ctx) (dto.G12bisRequest, bool, error) {
	var req dto.G12bisRequest
	if ok, err := parseQuery(c, &req); !ok {
		return req, false, err
	}
	paid, ok, err := decimalQuery(c, "g12_paid")
	if !ok {
		return req, false, err
	}
	if paid != nil {
		req.PaidWithG12 = *paid
	}
	return req, true, nil
}

// decimalQuery lee un importe opcional de la query. nil si no viene.
func decimalQuery(c *fiber.Ctx, key string) (*decimal.Decimal, bool, error) {
	s := c.Query(key)
	if s == "" {
		return nil, true, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: key + " debe ser un importe decimal",
			Details: []dto.ValidationDetail{{Field: key, Message: "importe inválido"}},
		})
	}
	return &d, true, nil
}
