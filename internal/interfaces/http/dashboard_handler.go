package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/analytics"
)

// DashboardHandler serves the top-line KPI summary (protected).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Dashboard figures
// @Description  Revenue, margins, stock alerts and the per-channel split,
// @Description  all derived from the current dataset.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummary
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
