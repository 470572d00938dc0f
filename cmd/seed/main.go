package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/campus-connect/config"
	pginfra "github.com/oksasatya/campus-connect/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-connect/pkg/helpers"
)

// seed inserts one approved college and an admin account. It is the only
// path that sets is_admin.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	collegeName := "Campus Connect University"
	domain := "campusconnect.edu"
	var collegeID string
	err = pool.QueryRow(ctx, `
		INSERT INTO colleges (name, email_domain, is_approved)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (email_domain) DO UPDATE SET is_approved = TRUE, updated_at = now()
		RETURNING id
	`, collegeName, domain).Scan(&collegeID)
	if err != nil {
		log.Fatalf("failed to seed college: %v", err)
	}
	fmt.Printf("seeded college: id=%s domain=%s\n", collegeID, domain)

	email := "admin@" + domain
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, username, email, password_hash, college_id, is_admin)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_admin = TRUE, updated_at = now()
		RETURNING id
	`, "Admin", "admin", email, hash, collegeID).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)
}
