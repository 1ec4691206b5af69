// file: internals/route/base_routes.go
package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolledger_backend/internals/helpers/period"
)

func BaseRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("School ledger is running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if deps.PingDB == nil {
			dbStatus = "In-memory store"
		} else {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.PingDB(ctx); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		now := deps.Ledger.Clock.Now()
		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    now.Format(time.RFC3339),
			"current_period": period.Key(now),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    deps.Environment,
		})
	})
}
