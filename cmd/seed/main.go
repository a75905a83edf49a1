package main // seeds the initial admin account

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/eventflow/event-booking/internal/config"
	"github.com/eventflow/event-booking/internal/database"
	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/repository"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// main creates the bootstrap admin if no account with ADMIN_EMAIL
// exists yet.  Running it twice is a no-op.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := env("ADMIN_EMAIL", "admin@eventflow.com")
	password := env("ADMIN_PASSWORD", "")
	name := env("ADMIN_NAME", "Administrator")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	id, err := users.Create(ctx, name, email, password, model.RoleAdmin, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created (id=%d)", email, id)
}
