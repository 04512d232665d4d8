package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/export"
	"github.com/yohand-byte/sales-margin-tracker/internal/application/snapshot"
)

// ExportHandler serves CSV/PDF exports and the JSON backup (protected).
type ExportHandler struct {
	csv  *export.CSVUseCase
	pdf  *export.PDFUseCase
	snap *snapshot.UseCase
}

// NewExportHandler builds the handler.
func NewExportHandler(csv *export.CSVUseCase, pdf *export.PDFUseCase, snap *snapshot.UseCase) *ExportHandler {
	return &ExportHandler{csv: csv, pdf: pdf, snap: snap}
}

// SalesCSV godoc
// @Summary      Export every sale line as CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/export/sales.csv [get]
func (h *ExportHandler) SalesCSV(c *fiber.Ctx) error {
	data, err := h.csv.SalesCSV(c.Context())
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales.csv"`)
	return c.Send(data)
}

// CatalogCSV godoc
// @Summary      Export the catalog with derived stock as CSV
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/export/catalog.csv [get]
func (h *ExportHandler) CatalogCSV(c *fiber.Ctx) error {
	data, err := h.csv.CatalogCSV(c.Context())
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalog.csv"`)
	return c.Send(data)
}

// OrderPDF godoc
// @Summary      Printable PDF for one aggregated order
// @Tags         export
// @Security     Bearer
// @Produce      application/pdf
// @Param        key  path  string  true  "Order key (date::client::transaction_ref::channel)"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/export/orders/{key} [get]
func (h *ExportHandler) OrderPDF(c *fiber.Ctx) error {
	key, err := url.QueryUnescape(c.Params("key"))
	if err != nil || key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "order key is required"})
	}
	data, err := h.pdf.OrderPDF(c.Context(), key)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="order.pdf"`)
	return c.Send(data)
}

// Backup godoc
// @Summary      Download the whole dataset as JSON
// @Tags         export
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.BackupPayload
// @Router       /api/backup [get]
func (h *ExportHandler) Backup(c *fiber.Ctx) error {
	data, err := h.snap.Export(c.Context())
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="backup.json"`)
	return c.Send(data)
}

// Import godoc
// @Summary      Replace the whole dataset from a JSON backup
// @Tags         export
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/backup/import [post]
func (h *ExportHandler) Import(c *fiber.Ctx) error {
	if err := h.snap.Import(c.Context(), c.Body()); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "backup imported"})
}
