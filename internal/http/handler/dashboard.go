package handler

import (
	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/service"
)

// GetDashboard returns status counts and the most urgent alerts.
//
// @Summary Dashboard
// @Tags dashboard
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} service.Dashboard
// @Router /users/{userId}/dashboard [get]
func GetDashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_USER", "invalid user id")
		}
		d, err := svc.Get(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}
