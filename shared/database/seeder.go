package database

import (
	"log"

	"complyready-backend/shared/config"
	"complyready-backend/shared/database/models"
	utils "complyready-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with a demo user and organization so the
// app is usable right after a fresh install.
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	cfg := config.GetConfig()

	user, created, err := seedDemoUser(cfg.DemoUserEmail, cfg.DemoUserPassword)
	if err != nil {
		return err
	}

	orgCreated, err := seedDemoOrganization(user)
	if err != nil {
		return err
	}

	if created || orgCreated {
		log.Printf("✅ Database seeding completed (demo user: %s)", user.Email)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

func seedDemoUser(email, password string) (*models.User, bool, error) {
	var existing models.User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user := models.User{
		Email:         email,
		Password:      hashed,
		FirstName:     "Demo",
		LastName:      "User",
		Status:        "ACTIVE",
		EmailVerified: true,
	}

	if err := DB.Create(&user).Error; err != nil {
		return nil, false, err
	}

	log.Printf("✅ Demo user created: %s", email)
	return &user, true, nil
}

func seedDemoOrganization(user *models.User) (bool, error) {
	var count int64
	if err := DB.Model(&models.Organization{}).
		Where("owner_id = ?", user.ID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	org := models.Organization{
		OwnerID:         user.ID,
		Name:            "Demo Trading LLC",
		Industry:        "Retail",
		CompanySize:     "11-50",
		Country:         "UAE",
		HandlesPII:      true,
		HandlesPayments: true,
	}

	if err := DB.Create(&org).Error; err != nil {
		return false, err
	}

	log.Printf("✅ Demo organization created: %s", org.Name)
	return true, nil
}
