package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"schoolledger_backend/internals/middlewares/logger"
)

type Options struct {
	CorsOrigins    string
	Timezone       string
	RequestTimeout time.Duration
}

// SetupMiddlewares installs the global chain in order: recover first so it
// wraps everything after it.
func SetupMiddlewares(app *fiber.App, opt Options) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(opt.RequestTimeout))
	app.Use(logger.LoggerMiddleware(opt.Timezone))
	app.Use(CorsMiddleware(opt.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
