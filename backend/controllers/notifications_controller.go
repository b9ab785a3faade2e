package controllers

import (
	"coursehub/backend/middleware"
	"coursehub/backend/services"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationsController struct {
	Notifications *services.NotificationService
}

func NewNotificationsController(notifications *services.NotificationService) *NotificationsController {
	return &NotificationsController{Notifications: notifications}
}

// ListNotifications godoc
// @Summary List notifications, newest first
// @Tags notifications
// @Produce json
// @Param limit query int false "Max items (default 20, max 100)"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /notifications [get]
func (nc *NotificationsController) ListNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	items, err := nc.Notifications.List(ctx, userID, c.QueryInt("limit", 0))
	if err != nil {
		return utils.RespondError(c, err)
	}
	unread, err := nc.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, items, fiber.Map{"unread": unread})
}

func (nc *NotificationsController) UnreadCount(c *fiber.Ctx) error {
	unread, err := nc.Notifications.UnreadCount(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"unread": unread})
}

func (nc *NotificationsController) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := nc.Notifications.MarkRead(c.UserContext(), middleware.UserID(c), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}

func (nc *NotificationsController) MarkAllRead(c *fiber.Ctx) error {
	if err := nc.Notifications.MarkAllRead(c.UserContext(), middleware.UserID(c)); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}

func (nc *NotificationsController) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := nc.Notifications.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.NoContent(c)
}
