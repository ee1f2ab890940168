package handler

import (
	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/service"
)

// GetPreferences returns the user's reminder preferences, all enabled when none are stored.
//
// @Summary Get reminder preferences
// @Tags preferences
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} model.Preferences
// @Router /users/{userId}/preferences [get]
func GetPreferences(svc service.PreferenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		p, err := svc.Get(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdatePreferences applies a partial update; omitted flags keep their value.
//
// @Summary Update reminder preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param preferences body service.PreferencesUpdate true "Flags to change"
// @Success 200 {object} model.Preferences
// @Failure 400 {object} errorPayload
// @Router /users/{userId}/preferences [put]
func UpdatePreferences(svc service.PreferenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		var in service.PreferencesUpdate
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p, err := svc.Update(c.UserContext(), userID, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}
