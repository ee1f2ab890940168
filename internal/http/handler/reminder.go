package handler

import (
	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/reminder"
	"expirytracker/internal/service"
)

// EvaluateReminders runs a reminder cycle for one user now and returns what fired.
// Repeating the call on the same day fires nothing new.
//
// @Summary Evaluate reminders
// @Tags reminders
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string][]reminder.Notification
// @Failure 503 {object} errorPayload
// @Router /users/{userId}/reminders/evaluate [post]
func EvaluateReminders(svc service.ReminderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		fired, err := svc.EvaluateUser(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		if fired == nil {
			fired = []reminder.Notification{}
		}
		return c.JSON(fiber.Map{"fired": fired})
	}
}
