package db

import (
	"fmt"
	"log"
	"os"

	"lms-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

// Migrate creates the five tables. The copy-count bounds live in a CHECK
// constraint on books (see models.Book), so the database rejects any write
// that would take available_copies outside [0, total_copies].
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Book{},
		&models.Borrow{},
		&models.AuditLog{},
	)
}
