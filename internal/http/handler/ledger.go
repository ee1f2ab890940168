package handler

import (
	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/service"
)

// LedgerSnapshot lists every recorded reminder key.
//
// @Summary Ledger snapshot
// @Tags ledger
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 503 {object} errorPayload
// @Router /ledger [get]
func LedgerSnapshot(svc service.LedgerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := svc.Snapshot(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"keys": keys, "total": len(keys)})
	}
}

// LedgerExportURL returns a presigned link to the archived snapshot of a day.
//
// @Summary Ledger export download link
// @Tags ledger
// @Produce json
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Router /ledger/exports/{day} [get]
func LedgerExportURL(svc service.LedgerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.ExportURL(c.UserContext(), c.Params("day"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"url":        u,
			"expires_in": int(service.ExportURLExpiry.Seconds()),
		})
	}
}
