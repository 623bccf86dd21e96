package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam reads a positive integer route parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// parsePagination reads offset/limit query parameters with sane bounds
func parsePagination(c *fiber.Ctx, defaultLimit, maxLimit int) (int, int) {
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit
}

// actorFromRequest resolves the acting admin identity for audit entries
func actorFromRequest(c *fiber.Ctx) string {
	actor := strings.TrimSpace(c.Get("X-Actor"))
	if actor == "" {
		return "admin"
	}
	return actor
}
