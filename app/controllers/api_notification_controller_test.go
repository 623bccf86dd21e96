package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/subpilot/subpilot/app/models"
)

type stubNotificationRepo struct {
	items   []models.Notification
	listErr error
}

func (s *stubNotificationRepo) Create(notification *models.Notification) error {
	s.items = append(s.items, *notification)
	return nil
}

func (s *stubNotificationRepo) ListByUserID(userID uint, offset, limit int) ([]models.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Notification
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubNotificationRepo) MarkRead(id, userID uint) error {
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newNotificationTestApp(repo *stubNotificationRepo) *fiber.App {
	app := fiber.New()
	nc := &NotificationController{notifications: repo}
	app.Get("/api/v1/users/:id/notifications", nc.HandleListNotifications)
	app.Post("/api/v1/users/:id/notifications/:notifID/read", nc.HandleMarkNotificationRead)
	return app
}

func TestHandleListNotificationsFiltersByUser(t *testing.T) {
	repo := &stubNotificationRepo{items: []models.Notification{
		{ID: 1, UserID: 7, Type: models.NotificationTypeSavings, ReferenceID: 42},
		{ID: 2, UserID: 8, Type: models.NotificationTypeSavings, ReferenceID: 43},
	}}
	app := newNotificationTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/users/7/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		UserID        uint                  `json:"user_id"`
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(7), body.UserID)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, uint(1), body.Notifications[0].ID)
	assert.Equal(t, uint(42), body.Notifications[0].ReferenceID)
}

func TestHandleMarkNotificationRead(t *testing.T) {
	repo := &stubNotificationRepo{items: []models.Notification{
		{ID: 5, UserID: 7, Type: models.NotificationTypeSavings},
	}}
	app := newNotificationTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/v1/users/7/notifications/5/read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.True(t, repo.items[0].IsRead)
}

func TestHandleMarkNotificationReadEnforcesOwnership(t *testing.T) {
	repo := &stubNotificationRepo{items: []models.Notification{
		{ID: 5, UserID: 7, Type: models.NotificationTypeSavings},
	}}
	app := newNotificationTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/v1/users/8/notifications/5/read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, repo.items[0].IsRead)
}
