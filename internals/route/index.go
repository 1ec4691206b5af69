// file: internals/route/index.go
package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	ledgerController "schoolledger_backend/internals/features/finance/ledger/controller"
	ledgerRoute "schoolledger_backend/internals/features/finance/ledger/route"
	"schoolledger_backend/internals/features/finance/ledger/service"
)

var startTime time.Time

type Deps struct {
	Ledger *service.Ledger
	// nil when the scheduler is disabled
	Trigger ledgerController.GenerationTrigger
	// nil for the in-memory store
	PingDB      func(ctx context.Context) error
	Environment string
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps)

	log.Println("[INFO] Mounting Ledger routes...")
	api := app.Group("/api/ledger")
	ledgerRoute.AdminLedgerRoutes(api, deps.Ledger, deps.Trigger)
}
