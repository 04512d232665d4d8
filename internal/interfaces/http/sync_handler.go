package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/syncer"
)

// SyncHandler exposes the reconciler to the operator (protected).
type SyncHandler struct {
	rec *syncer.Reconciler
}

// NewSyncHandler builds the handler.
func NewSyncHandler(rec *syncer.Reconciler) *SyncHandler {
	return &SyncHandler{rec: rec}
}

// Status godoc
// @Summary      Current synchronization state
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatus
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.rec.Status())
}

// Init godoc
// @Summary      Run the startup reconciliation now
// @Description  Compares the local dataset with the remote snapshot and
// @Description  adopts, publishes or flags a conflict.
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatus
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sync/init [post]
func (h *SyncHandler) Init(c *fiber.Ctx) error {
	if err := h.rec.Init(c.Context()); err != nil {
		return fail(c, err)
	}
	return c.JSON(h.rec.Status())
}

// Push godoc
// @Summary      Push the local dataset to the remote store now
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatus
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sync/push [post]
func (h *SyncHandler) Push(c *fiber.Ctx) error {
	if err := h.rec.Push(c.Context()); err != nil {
		return fail(c, err)
	}
	return c.JSON(h.rec.Status())
}

// Resolve godoc
// @Summary      Resolve a sync conflict
// @Description  keep=local overwrites the remote snapshot with the local
// @Description  dataset; keep=remote adopts the remote snapshot wholesale.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveRequest  true  "Which side to keep"
// @Success      200   {object}  dto.SyncStatus
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sync/resolve [post]
func (h *SyncHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if err := h.rec.Resolve(c.Context(), in.Keep); err != nil {
		return fail(c, err)
	}
	return c.JSON(h.rec.Status())
}

// Comparison godoc
// @Summary      Compare local and remote datasets
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncComparison
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/comparison [get]
func (h *SyncHandler) Comparison(c *fiber.Ctx) error {
	out, err := h.rec.Comparison(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
