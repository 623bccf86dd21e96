package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
)

type reviewPayload struct {
	UserID  uint   `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleListServiceReviews returns a service's reviews with its mean rating
func HandleListServiceReviews(c *fiber.Ctx) error {
	serviceID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	offset, limit := parsePagination(c, 20, 100)

	repo := repository.GetGlobalFactory().GetReviewRepository()
	reviews, err := repo.ListByServiceID(serviceID, offset, limit)
	if err != nil {
		fiberlog.Errorf("reviews: list failed for service %d: %v", serviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load reviews"})
	}
	average, err := repo.AverageRating(serviceID)
	if err != nil {
		fiberlog.Errorf("reviews: average failed for service %d: %v", serviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load rating"})
	}

	return c.JSON(fiber.Map{
		"service_id":     serviceID,
		"average_rating": average,
		"reviews":        reviews,
	})
}

// HandleCreateServiceReview records a new review for a service
func HandleCreateServiceReview(c *fiber.Ctx) error {
	serviceID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var payload reviewPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid review payload"})
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetServiceRepository().GetByID(serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Service not found"})
		}
		fiberlog.Errorf("reviews: service lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load service"})
	}

	review := &models.ServiceReview{
		UserID:    payload.UserID,
		ServiceID: serviceID,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
	}
	if err := review.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := factory.GetReviewRepository().Create(review); err != nil {
		fiberlog.Errorf("reviews: create failed for service %d: %v", serviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create review"})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}
