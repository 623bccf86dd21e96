package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/subpilot/subpilot/internal/pkg/policy"
)

// AdminConfigController manages the optimizer policy overrides at runtime
type AdminConfigController struct {
	store *policy.Store
}

var adminConfigController *AdminConfigController

// InitializeAdminConfigController wires the controller with the shared
// policy store
func InitializeAdminConfigController(store *policy.Store) {
	adminConfigController = &AdminConfigController{store: store}
}

// GetAdminConfigController returns the initialized admin config controller
func GetAdminConfigController() *AdminConfigController {
	if adminConfigController == nil {
		panic("Admin config controller not initialized. Call InitializeAdminConfigController first.")
	}
	return adminConfigController
}

// configError maps policy store errors onto HTTP responses, always naming
// the offending key when one is known
func configError(c *fiber.Ctx, err error) error {
	var keyErr *policy.KeyError
	status := fiber.StatusInternalServerError
	code := "internal_server_error"
	switch {
	case errors.Is(err, policy.ErrUnknownKey):
		status, code = fiber.StatusUnprocessableEntity, "unknown_key"
	case errors.Is(err, policy.ErrInvalidValue):
		status, code = fiber.StatusUnprocessableEntity, "invalid_value"
	case errors.Is(err, policy.ErrNothingToRollback):
		status, code = fiber.StatusNotFound, "nothing_to_roll_back"
	}
	response := fiber.Map{"error": code, "message": err.Error()}
	if errors.As(err, &keyErr) {
		response["key"] = keyErr.Key
	}
	if status == fiber.StatusInternalServerError {
		fiberlog.Errorf("admin config: %v", err)
		response["message"] = "Configuration update failed"
	}
	return c.Status(status).JSON(response)
}

// HandleGetEffectivePolicy returns the current merged policy
func (acc *AdminConfigController) HandleGetEffectivePolicy(c *fiber.Ctx) error {
	return c.JSON(acc.store.GetEffectivePolicy())
}

// HandleGetDefaultPolicy returns the compiled-in defaults
func (acc *AdminConfigController) HandleGetDefaultPolicy(c *fiber.Ctx) error {
	return c.JSON(acc.store.GetDefaultPolicy())
}

// HandleGetOverrides returns the active override map and the allow-list
func (acc *AdminConfigController) HandleGetOverrides(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"overrides":    acc.store.GetActiveOverrides(),
		"allowed_keys": policy.AllowedKeys(),
	})
}

// HandleApplyOverrides validates and applies a batch of overrides. The whole
// batch is rejected when any key or value fails validation; a blank value
// removes that key's override.
func (acc *AdminConfigController) HandleApplyOverrides(c *fiber.Ctx) error {
	var overrides map[string]string
	if err := c.BodyParser(&overrides); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Body must be a flat key/value object"})
	}

	effective, err := acc.store.ApplyOverrides(overrides, actorFromRequest(c))
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(effective)
}

// HandleRollbackAll deactivates every active override
func (acc *AdminConfigController) HandleRollbackAll(c *fiber.Ctx) error {
	effective, err := acc.store.RollbackAllOverrides(actorFromRequest(c))
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(effective)
}

// HandleRollbackKey restores one key to its previous value
func (acc *AdminConfigController) HandleRollbackKey(c *fiber.Ctx) error {
	effective, err := acc.store.RollbackOverrideByKey(c.Params("key"), actorFromRequest(c))
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(effective)
}

// HandleGetAudits returns recent audit entries, optionally filtered by key
func (acc *AdminConfigController) HandleGetAudits(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	audits, err := acc.store.GetRecentAudits(limit, c.Query("key"))
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(fiber.Map{"audits": audits})
}

// HandleRefreshCache forces a policy cache rebuild
func (acc *AdminConfigController) HandleRefreshCache(c *fiber.Ctx) error {
	return c.JSON(acc.store.RefreshCache())
}
