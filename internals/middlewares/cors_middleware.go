package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware allows the admin frontends listed in CORS_ALLOW_ORIGINS
// (comma separated); local dev origins when unset.
func CorsMiddleware(origins string) fiber.Handler {
	if strings.TrimSpace(origins) == "" {
		origins = strings.Join([]string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}, ", ")
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Actor-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: true,
	})
}
