package main

import (
	"log"

	"complyready-backend/shared/config"
	"complyready-backend/shared/database"
	"complyready-backend/shared/database/models"
	utils "complyready-backend/shared/utils/auth"
)

func main() {
	log.Println("🌱 Starting database seeding...")

	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Run seeding
	if err := database.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Print a ready-to-use bearer token for the demo user
	var demo models.User
	if err := database.GetDB().Where("email = ?", cfg.DemoUserEmail).First(&demo).Error; err != nil {
		log.Fatalf("Failed to load demo user: %v", err)
	}

	token, err := utils.GenerateJWT(demo.ID, demo.Email)
	if err != nil {
		log.Fatalf("Failed to generate demo token: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	log.Printf("🔑 Demo bearer token (%s):", demo.Email)
	log.Println(token)
}
