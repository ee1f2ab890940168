package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"expirytracker/internal/database"
)

const healthTimeout = 2 * time.Second

// HealthChecker is a dependency the readiness probe asks for its health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

func (f HealthCheckerFunc) Health(ctx context.Context) error {
	return f(ctx)
}

// Dependency is a named HealthChecker.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

// HealthCheck reports healthy only when the database answers a ping and every
// dependency reports healthy. Dependencies are checked in order.
//
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB, deps ...Dependency) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db, healthTimeout); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database unavailable")
		}
		for _, d := range deps {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			err := d.Checker.Health(ctx)
			cancel()
			if err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", d.Name+" unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
