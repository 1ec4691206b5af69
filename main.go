package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolledger_backend/internals/configs"
	database "schoolledger_backend/internals/databases"
	"schoolledger_backend/internals/features/finance/ledger/repository"
	"schoolledger_backend/internals/features/finance/ledger/scheduler"
	"schoolledger_backend/internals/features/finance/ledger/service"
	helper "schoolledger_backend/internals/helpers"
	"schoolledger_backend/internals/helpers/clock"
	middlewares "schoolledger_backend/internals/middlewares"
	routes "schoolledger_backend/internals/route"
	"schoolledger_backend/internals/seeds"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, _ := cfg.Location()
	clk := clock.System{Loc: loc}

	// 🔌 store: postgres in production, memory for demos
	var (
		db    *gorm.DB
		store repository.Store
	)
	switch cfg.Ledger.Store {
	case configs.StoreMemory:
		log.Println("[DB] LEDGER_STORE=memory, nothing is persisted")
		store = repository.NewMemoryStore()
	default:
		db, err = database.ConnectDB(cfg.DB)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		if err := database.TunePool(db, cfg.DB); err != nil {
			log.Fatalf("db pool: %v", err)
		}
		database.WarmUp(db)
		gs := repository.NewGormStore(db)
		if err := gs.AutoMigrate(context.Background()); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		log.Println("[DB] ledger schema up to date")
		store = gs
	}

	if cfg.Ledger.SystemActorID == uuid.Nil {
		log.Println("[MIRROR] LEDGER_SYSTEM_ACTOR_ID not set; salary expenses are deferred until it is")
	}
	ledger := service.New(store, clk, service.Options{SystemActor: cfg.Ledger.SystemActorID})

	if cfg.Ledger.SeedFile != "" {
		if err := seeds.RunAllSeeds(context.Background(), ledger, cfg.Ledger.SeedFile); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	deps := routes.Deps{Ledger: ledger, Environment: cfg.Environment}
	if db != nil {
		deps.PingDB = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	// ⏱ scheduler after the store is ready; first pass runs before we serve
	var sched *scheduler.GenerationScheduler
	if cfg.Ledger.SchedulerEnabled {
		sched, err = scheduler.New(ledger, scheduler.Config{
			Schedule: cfg.Ledger.CronSchedule,
			Location: loc,
			Timeout:  cfg.Ledger.OperationTimeout,
		})
		if err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		if _, err := sched.Start(context.Background()); err != nil {
			log.Printf("[SCHEDULER] startup pass: %v", err)
		}
		deps.Trigger = sched
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app, middlewares.Options{
		CorsOrigins:    cfg.CorsOrigins,
		Timezone:       cfg.Ledger.Timezone,
		RequestTimeout: cfg.Ledger.OperationTimeout,
	})

	routes.SetupRoutes(app, deps)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = cfg.Ledger.OperationTimeout + 5*time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop accepting, let a running pass finish, close pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.OperationTimeout)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-ctx.Done():
			log.Println("[SCHEDULER] shutdown timed out with a pass still running")
		}
	}
	if db != nil {
		database.Close(db)
	}
}
