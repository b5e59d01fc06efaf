package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"github.com/lodgeworks/inventory-ledger/config"
	"github.com/lodgeworks/inventory-ledger/internal/auth"
)

// Creates or resets the initial admin account.
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	display := flag.String("display-name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("connect mysql: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	_, err = db.ExecContext(context.Background(), `
		INSERT INTO users (username, password_hash, display_name, role, active, created_at)
		VALUES (?, ?, ?, 'admin', 1, NOW())
		ON DUPLICATE KEY UPDATE password_hash = VALUES(password_hash), active = 1`,
		*username, hash, *display,
	)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	log.Printf("admin user %q ready", *username)
}
