package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/subpilot/subpilot/app/repository"
)

// cached key families operators typically inspect
var defaultCachePatterns = []string{"optimizer:*", "service:counters:*"}

// HandleListCacheKeys lists Redis keys matching the given patterns with
// their TTLs. Without a patterns query it covers the optimizer families.
func HandleListCacheKeys(c *fiber.Ctx) error {
	patterns := defaultCachePatterns
	if raw := strings.TrimSpace(c.Query("patterns")); raw != "" {
		patterns = strings.Split(raw, ",")
	}

	repo := repository.GetGlobalFactory().GetCacheRepository()
	keys, err := repo.FindKeysByPatterns(patterns)
	if err != nil {
		fiberlog.Errorf("cache admin: key scan failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan cache keys"})
	}

	entries := make([]fiber.Map, 0, len(keys))
	for _, key := range keys {
		entry := fiber.Map{"key": key}
		if ttl, err := repo.GetTTL(key); err == nil {
			entry["ttl_ms"] = ttl.Milliseconds()
		}
		entries = append(entries, entry)
	}
	return c.JSON(fiber.Map{"keys": entries})
}

// HandleDeleteCacheKeys deletes Redis keys matching the given patterns and
// reports how many were removed.
func HandleDeleteCacheKeys(c *fiber.Ctx) error {
	patterns := defaultCachePatterns
	if raw := strings.TrimSpace(c.Query("patterns")); raw != "" {
		patterns = strings.Split(raw, ",")
	}

	repo := repository.GetGlobalFactory().GetCacheRepository()
	keys, err := repo.FindKeysByPatterns(patterns)
	if err != nil {
		fiberlog.Errorf("cache admin: key scan failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to scan cache keys"})
	}

	deleted, err := repo.DeleteKeys(keys)
	if err != nil {
		fiberlog.Errorf("cache admin: delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete cache keys"})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
