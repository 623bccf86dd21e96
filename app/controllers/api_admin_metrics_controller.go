package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/subpilot/subpilot/internal/pkg/metrics/counter"
)

// HandleFlushCounters drains the pending Redis recommendation counters into
// the database. Exposed for operators; safe to call at any time.
func HandleFlushCounters(c *fiber.Ctx) error {
	if err := counter.FlushAll(); err != nil {
		fiberlog.Errorf("metrics: counter flush failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to flush counters"})
	}
	return c.JSON(fiber.Map{"message": "counters flushed"})
}
