package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/andrsolo/contactbook/config"
	"github.com/andrsolo/contactbook/pkg/helpers"
)

// Seeds a confirmed admin account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := envOr("SEED_USERNAME", "admin")
	email := envOr("SEED_EMAIL", "admin@example.com")
	password := envOr("SEED_PASSWORD", "password123")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, avatar, confirmed, role)
		VALUES ($1, $2, $3, $4, TRUE, 'admin')
		ON CONFLICT (email) DO UPDATE SET confirmed = TRUE, role = 'admin'
		RETURNING id
	`, username, email, hash, helpers.GravatarURL(email, 250)).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded admin: id=%d username=%s email=%s password=%s\n", id, username, email, password)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
