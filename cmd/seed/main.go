package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/placora/places-api/config"
	"github.com/placora/places-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@places.dev"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	var placeID string
	err = db.QueryRow(`
		INSERT INTO places (title, description, address, creator_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "Empire State Building", "One of the most famous skyscrapers in the world", "20 W 34th St, New York, NY 10001", userID).Scan(&placeID)
	if err != nil {
		log.Fatalf("failed to seed place: %v", err)
	}

	// Keep the owner's reference set in step with the place row
	if _, err := db.Exec(`
		INSERT INTO user_places (user_id, place_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, place_id) DO NOTHING
	`, userID, placeID); err != nil {
		log.Fatalf("failed to link place to user: %v", err)
	}
	fmt.Printf("seeded place: id=%s creator=%s\n", placeID, userID)
}
