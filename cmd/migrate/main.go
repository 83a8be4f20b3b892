package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"ai-gateway-be/internal/model"
	"ai-gateway-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions and indexes AutoMigrate doesn't cover
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Conversation{},
		&model.Message{},
		&model.UsageRecord{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// 5. Post-Migration: hot-path indexes
	log.Println("Step 3: Creating indexes...")

	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_conversations_user_status ON ai_conversations (user_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_updated_at ON ai_conversations (updated_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON ai_messages (conversation_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_user_date ON ai_usage (user_id, date);`,
	}

	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v. Continuing...", err)
		}
	}

	log.Println("Migration completed successfully.")
}
