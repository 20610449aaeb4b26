package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "disclosure_backend/internal/feature/auth/domain/entity"
	compareadapters "disclosure_backend/internal/feature/compare/adapters"
	corpentity "disclosure_backend/internal/feature/corporations/domain/entity"
	stmtadapters "disclosure_backend/internal/feature/statements/adapters"
	syncentity "disclosure_backend/internal/feature/sync/domain/entity"
)

// OpenDB connects to the configured database, retrying until a 60s
// deadline. Postgres is used when DB_HOST is set; otherwise a local
// SQLite file (DB_PATH, default disclosure.db). The process exits when
// no connection can be established.
func OpenDB() *gorm.DB {
	dial := dialector()

	var (
		conn *gorm.DB
		err  error
	)
	deadline := time.Now().Add(60 * time.Second)
	for {
		conn, err = gorm.Open(dial, &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(conn); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return conn
}

func dialector() gorm.Dialector {
	if host := os.Getenv("DB_HOST"); host != "" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host,
			envOr("DB_PORT", "5432"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
		)
		return gpostgres.Open(dsn)
	}
	return gsqlite.Open(envOr("DB_PATH", "disclosure.db"))
}

// Migrate creates or updates every table the service uses.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authentity.User{},
		&corpentity.Corporation{},
		&stmtadapters.StatementModel{},
		&syncentity.SyncLogEntry{},
		&compareadapters.ComparisonSetModel{},
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
