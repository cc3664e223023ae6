package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/ugcompta/invoiceflow/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los KPIs del mes en curso.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (volumen HT, TVA, pendiente de cobro, vencidas,
// top de clientes y serie mensual del año). Sin parámetros.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}

	summary, err := h.uc.GetSummary(c.UserContext(), businessID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(summary)
}
