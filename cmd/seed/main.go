package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/minsuk-ha/go-shop-ddd/config"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Base categories
	categories := []string{"electronics", "books", "clothing", "food", "home"}
	for _, name := range categories {
		var id string
		if err := db.QueryRow(`
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET updated_at = now()
			RETURNING id
		`, name).Scan(&id); err != nil {
			log.Fatalf("failed to upsert category %s: %v", name, err)
		}
		fmt.Printf("category ensured: %s id=%s\n", name, id)
	}

	// Admin member
	email := "admin@example.com"
	password := "password123"
	username := "admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO members (username, email, password_hash, name, address_line, address_detail, postal_code, role)
		VALUES ($1, $2, $3, $4, '', '', 0, 'ADMIN')
		ON CONFLICT (email) DO UPDATE SET role = 'ADMIN'
		RETURNING id
	`, username, email, hash, "Administrator").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin member: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s username=%s password=%s\n", id, email, username, password)
}
