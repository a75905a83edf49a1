package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/eventflow/event-booking/internal/config"
	"github.com/eventflow/event-booking/internal/database"
	"github.com/eventflow/event-booking/internal/handler"
	"github.com/eventflow/event-booking/internal/queue"
	"github.com/eventflow/event-booking/internal/repository"
	"github.com/eventflow/event-booking/internal/router"
	"github.com/eventflow/event-booking/internal/service"
	"github.com/eventflow/event-booking/internal/ticket"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migCtx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	// Redis backs both the token blacklist and the rate limiter.  When
	// it is unreachable the service still starts: revocation falls back
	// to an in-process store and the limiter passes requests through.
	rdb := config.NewRedisClient()
	var blacklist repository.TokenBlacklist
	if rdb != nil {
		blacklist = repository.NewRedisBlacklist(rdb)
	} else {
		log.Println("redis unavailable, using in-memory token blacklist")
		blacklist = repository.NewMemoryBlacklist()
	}
	rl := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	reservations := repository.NewReservationRepo(db, events)

	authSvc := service.NewAuthService(users, blacklist, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	resSvc := service.NewReservationService(reservations, events, ticket.NewRenderer(), queue.PublishReservationConfirmed)

	authH := handler.NewAuthHandler(authSvc)
	eventH := handler.NewEventHandler(events)
	userH := handler.NewUserHandler(users, cfg.BcryptCost)
	resH := handler.NewReservationHandler(resSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, eventH)
	router.RegisterAuth(e, authH, cfg.JWTSecret, blacklist, users, rl, rdb)
	router.RegisterParticipant(e, resH, cfg.JWTSecret, blacklist, users, rl, rdb)
	router.RegisterAdmin(e, eventH, userH, resH, cfg.JWTSecret, blacklist, users)

	// Confirmation consumer runs for the life of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartConfirmationConsumer(); err != nil {
			log.Printf("confirmation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
