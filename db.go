package main

import (
	"os"
	"strings"

	"budgetbe/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func initDB(log zerolog.Logger) *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal().Msg("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres database")
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		// Families and currencies first so the FKs on users/expenses apply safely.
		for _, m := range []interface{}{
			&models.Family{},
			&models.Currency{},
			&models.User{},
			&models.Profile{},
			&models.Expense{},
			&models.Receipt{},
			&models.RefreshToken{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				log.Warn().Err(err).Msgf("migration warning (%T)", m)
			}
		}
	}
	seedCurrencies(db, log)
	return db
}

// seedCurrencies fills the read-only currency reference table on first run.
func seedCurrencies(db *gorm.DB, log zerolog.Logger) {
	currencies := []models.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "GBP", Name: "British Pound", Symbol: "£"},
		{Code: "RUB", Name: "Russian Ruble", Symbol: "₽"},
	}
	for _, cur := range currencies {
		var cnt int64
		db.Model(&models.Currency{}).Where("code = ?", cur.Code).Count(&cnt)
		if cnt == 0 {
			if err := db.Create(&cur).Error; err != nil {
				log.Warn().Err(err).Str("code", cur.Code).Msg("currency seed failed")
			}
		}
	}
}

// uploadBaseDir returns the base directory for receipt uploads (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
