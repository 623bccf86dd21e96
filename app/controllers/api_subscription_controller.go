package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
)

// subscriptionPayload is the inbound shape for creating a subscription
type subscriptionPayload struct {
	ServiceID    uint   `json:"service_id"`
	PlanName     string `json:"plan_name"`
	Price        int64  `json:"price"`
	BillingCycle string `json:"billing_cycle"`
}

// HandleListSubscriptions returns all subscriptions of a user
func HandleListSubscriptions(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetSubscriptionRepository()
	subs, err := repo.GetByUserID(userID)
	if err != nil {
		fiberlog.Errorf("subscriptions: list failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
	}

	return c.JSON(fiber.Map{
		"user_id":       userID,
		"subscriptions": subs,
	})
}

// HandleCreateSubscription records a new subscription for a user
func HandleCreateSubscription(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var payload subscriptionPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid subscription payload"})
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetServiceRepository().GetByID(payload.ServiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Service not found"})
		}
		fiberlog.Errorf("subscriptions: service lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load service"})
	}

	sub := &models.Subscription{
		UserID:       userID,
		ServiceID:    payload.ServiceID,
		PlanName:     payload.PlanName,
		Price:        payload.Price,
		BillingCycle: payload.BillingCycle,
		IsActive:     true,
	}
	if err := sub.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := factory.GetSubscriptionRepository().Create(sub); err != nil {
		fiberlog.Errorf("subscriptions: create failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create subscription"})
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleCancelSubscription deactivates a subscription; the row is kept so
// past optimizer runs and notifications stay explainable
func HandleCancelSubscription(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	subID, err := parseIDParam(c, "subID")
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetSubscriptionRepository()
	sub, err := repo.GetByID(subID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Subscription not found"})
		}
		fiberlog.Errorf("subscriptions: lookup failed for %d: %v", subID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}
	if sub.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Subscription not found"})
	}

	if err := repo.Deactivate(subID); err != nil {
		fiberlog.Errorf("subscriptions: deactivate failed for %d: %v", subID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to cancel subscription"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
