package main

import (
	"os"

	"budgetbe/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// Auto-load ./.env if present before reading vars. Existing env wins.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}

	// Support a lightweight migrate command: `./budgetbe migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(log)
		log.Info().Msg("migration and seeding completed")
		return
	}

	db := initDB(log)
	s := newServer(store.New(db), []byte(secret), uploadBaseDir(), log)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	s.setupRoutes(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
