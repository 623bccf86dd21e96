package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
)

// userPayload is the inbound shape for registering a user
type userPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserController handles account registration
type UserController struct {
	users repository.UserRepository
}

var userController *UserController

// InitializeUserController wires the controller with the global repositories
func InitializeUserController() {
	userController = &UserController{
		users: repository.GetGlobalRepositories().User,
	}
}

// GetUserController returns the initialized user controller
func GetUserController() *UserController {
	if userController == nil {
		panic("User controller not initialized. Call InitializeUserController first.")
	}
	return userController
}

// HandleRegisterUser creates a new account with a bcrypt-hashed password
func (uc *UserController) HandleRegisterUser(c *fiber.Ctx) error {
	var payload userPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user payload"})
	}

	// the model validates the stored hash, so the plaintext length is checked here
	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Password must be at least 6 characters"})
	}

	if _, err := uc.users.GetByEmail(payload.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Email is already registered"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		fiberlog.Errorf("users: email lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to check email"})
	}

	user, err := models.CreateUser(payload.Name, payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := uc.users.Create(user); err != nil {
		fiberlog.Errorf("users: create failed for %s: %v", payload.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}
