package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the process environment. Missing file is fine
// (production sets real env vars), anything else is worth a warning.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("load .env: %v", err)
		}
	}
}
