package db

import (
	"database/sql"
	"log"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", ensureParseTime(dbURL))
	if err != nil {
		log.Fatal("Could not open database connection:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("Database is not responding:", err)
	}

	log.Println("Connected to database")
	return db
}

// ensureParseTime forces parseTime=true in the DSN: DATE and DATETIME
// columns scan into time.Time throughout the services. An explicit
// parseTime setting in the DSN is left alone.
func ensureParseTime(dbURL string) string {
	if strings.Contains(dbURL, "parseTime=") {
		return dbURL
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&parseTime=true"
	}
	return dbURL + "?parseTime=true"
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(32) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			balance DECIMAL(20,2) NOT NULL DEFAULT 0,
			active_investments DECIMAL(20,2) NOT NULL DEFAULT 0,
			total_profit DECIMAL(20,2) NOT NULL DEFAULT 0,
			avatar VARCHAR(255),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR(32) PRIMARY KEY,
			seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
			user_id VARCHAR(32) NOT NULL,
			type VARCHAR(20) NOT NULL,
			amount DECIMAL(20,2) NOT NULL,
			date DATE NOT NULL,
			status VARCHAR(20) NOT NULL,
			description VARCHAR(255),
			wallet_address VARCHAR(255),
			proof_image VARCHAR(255),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_user_id (user_id),
			INDEX idx_date (date),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("Migration failed:", err)
		}
	}
	log.Println("Migrations applied")
}
