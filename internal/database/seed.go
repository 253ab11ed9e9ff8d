package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"wikibase/internal/catalog"
)

// Seed populates the database with initial development data: a default
// admin user and a small sample taxonomy. It is a no-op when users
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@wikibase.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Sample taxonomy so the catalog is navigable out of the box.
	smsID := catalog.NewID()
	if _, err := db.Exec(`
		INSERT INTO categories (identifier, name) VALUES ($1, $2)
	`, smsID, "SMS"); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}
	for _, name := range []string{"Campanhas", "Blacklist"} {
		if _, err := db.Exec(`
			INSERT INTO sub_categories (identifier, name, category_identifier)
			VALUES ($1, $2, $3)
		`, catalog.NewID(), name, smsID); err != nil {
			return fmt.Errorf("seed insert subcategory %q: %w", name, err)
		}
	}

	slog.Info("database seeded with default admin user and sample taxonomy",
		"email", "admin@wikibase.local",
		"password", "admin",
	)

	return nil
}
