package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"bodylog/database"
	"bodylog/internal/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found: %v", err)
		}
	}
}

func main() {
	numUsers := flag.Int("users", utils.DefaultNumUsers, "number of test users to seed")
	flag.Parse()

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	if err := utils.SeedUsers(database.DB, *numUsers); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
