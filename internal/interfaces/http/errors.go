package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
)

// fail maps domain errors to their HTTP representation. Every handler funnels
// its use case errors through here so the status codes stay consistent.
func fail(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "resource already exists"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "unauthorized"})
	case errors.Is(err, domain.ErrSyncConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_CONFLICT", Message: "local and remote datasets diverged; resolve first"})
	case errors.Is(err, domain.ErrSyncDisabled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_DISABLED", Message: "remote sync is disabled"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
