package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/service"
)

// ListNotifications returns the user's inbox, newest first.
//
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param userId path string true "User ID"
// @Param filter query string false "all, expiring, expired or unread"
// @Param limit query int false "Max results" default(50)
// @Success 200 {object} map[string][]model.Notification
// @Failure 400 {object} errorPayload
// @Router /users/{userId}/notifications [get]
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(service.InboxLimit)))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		items, err := svc.List(c.UserContext(), userID, c.Query("filter"), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// UnreadCount feeds the inbox badge.
func UnreadCount(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		n, err := svc.UnreadCount(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"unread": n})
	}
}

func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.MarkRead(c.UserContext(), userID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func MarkAllNotificationsRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		n, err := svc.MarkAllRead(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"updated": n})
	}
}

func DeleteNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), userID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
