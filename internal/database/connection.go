package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. With DATABASE_URL set it
// connects to PostgreSQL, otherwise it falls back to a local SQLite file.
func Connect() error {
	databaseURL := os.Getenv("DATABASE_URL")

	if databaseURL != "" && strings.HasPrefix(databaseURL, "postgres") {
		db, err := sqlx.Connect("postgres", databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "trainbot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username TEXT DEFAULT '',
			first_name TEXT DEFAULT '',
			last_name TEXT DEFAULT '',
			is_admin BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_activity TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create categories table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS categories (
			id %s,
			name TEXT NOT NULL UNIQUE,
			description TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_by BIGINT DEFAULT 0
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create categories table: %v", err)
	}

	// Create products table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS products (
			id %s,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			category_id BIGINT NOT NULL,
			image_file_id TEXT DEFAULT '',
			document_file_id TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_by BIGINT DEFAULT 0,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create products table: %v", err)
	}

	// Create test_questions table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS test_questions (
			id %s,
			product_id BIGINT NOT NULL,
			question TEXT NOT NULL,
			option_a TEXT NOT NULL,
			option_b TEXT NOT NULL,
			option_c TEXT NOT NULL,
			option_d TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_by BIGINT DEFAULT 0,
			FOREIGN KEY (product_id) REFERENCES products(id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create test_questions table: %v", err)
	}

	// Create test_results table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS test_results (
			id %s,
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			score REAL NOT NULL,
			total_questions INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			completed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (product_id) REFERENCES products(id)
		)
	`, serial))
	if err != nil {
		return fmt.Errorf("failed to create test_results table: %v", err)
	}

	return nil
}
