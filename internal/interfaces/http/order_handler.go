package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/analytics"
)

// OrderHandler serves the aggregated order view (protected).
type OrderHandler struct {
	uc *analytics.OrdersUseCase
}

// NewOrderHandler builds the handler.
func NewOrderHandler(uc *analytics.OrdersUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// List godoc
// @Summary      List virtual orders
// @Description  Reaggregates the flat sale list into orders grouped by
// @Description  (date, customer, transaction ref, channel), newest first.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  orders.Row
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
