package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/subpilot/subpilot/app/repository"
)

// NotificationController serves the savings notifications recorded for
// optimization runs
type NotificationController struct {
	notifications repository.NotificationRepository
}

var notificationController *NotificationController

// InitializeNotificationController wires the controller with the global repositories
func InitializeNotificationController() {
	notificationController = &NotificationController{
		notifications: repository.GetGlobalRepositories().Notification,
	}
}

// GetNotificationController returns the initialized notification controller
func GetNotificationController() *NotificationController {
	if notificationController == nil {
		panic("Notification controller not initialized. Call InitializeNotificationController first.")
	}
	return notificationController
}

// HandleListNotifications returns the notifications of a user, newest first
func (nc *NotificationController) HandleListNotifications(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	offset, limit := parsePagination(c, 20, 100)

	notifications, err := nc.notifications.ListByUserID(userID, offset, limit)
	if err != nil {
		fiberlog.Errorf("notifications: list failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load notifications"})
	}

	return c.JSON(fiber.Map{
		"user_id":       userID,
		"notifications": notifications,
	})
}

// HandleMarkNotificationRead marks one of the user's notifications as read.
// A notification belonging to another user is reported as not found.
func (nc *NotificationController) HandleMarkNotificationRead(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	notifID, err := parseIDParam(c, "notifID")
	if err != nil {
		return err
	}

	if err := nc.notifications.MarkRead(notifID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Notification not found"})
		}
		fiberlog.Errorf("notifications: mark read failed for %d: %v", notifID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to mark notification read"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
