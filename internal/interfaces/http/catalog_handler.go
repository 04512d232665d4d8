package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/catalog"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
)

// CatalogHandler handles the product catalog endpoints (protected).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List godoc
// @Summary      List the catalog in display order
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.CatalogProduct
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Add a catalog product
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogProductRequest  true  "Product data"
// @Success      201   {object}  entity.CatalogProduct
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CatalogProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Replace a catalog product
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        ref   path  string  true  "Product reference"
// @Param        body  body  dto.CatalogProductRequest  true  "Product data"
// @Success      200   {object}  entity.CatalogProduct
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalog/{ref} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_REF", Message: "ref is required"})
	}
	var in dto.CatalogProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.Update(c.Context(), ref, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Remove a catalog product
// @Description  Sale lines referencing the product are kept; they become
// @Description  soft references without stock tracking.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "Product reference"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{ref} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_REF", Message: "ref is required"})
	}
	if err := h.uc.Delete(c.Context(), ref); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "product deleted"})
}

// Stock godoc
// @Summary      Derived stock per tracked reference
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockEntry
// @Router       /api/catalog/stock [get]
func (h *CatalogHandler) Stock(c *fiber.Ctx) error {
	out, err := h.uc.StockView(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
