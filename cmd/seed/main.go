// Command seed creates the import_runs table and the fallback importer user.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"projector-crm-sync/config"
	"projector-crm-sync/models"
	"projector-crm-sync/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	config.InitDB()

	if err := config.DB.AutoMigrate(&models.ImportRun{}); err != nil {
		log.Fatalf("migrate import_runs: %v", err)
	}

	email := config.LoadImportSettings().FallbackEmail
	if !utils.ValidateEmail(email) {
		log.Fatalf("IMPORT_FALLBACK_EMAIL %q is not a valid address", email)
	}

	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Printf("User %s already exists (id %d)\n", email, existing.ID)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("lookup %s: %v", email, err)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if ok, msg := utils.ValidatePassword(password); !ok {
		log.Fatalf("SEED_ADMIN_PASSWORD: %s", msg)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Name:     "Spreadsheet Importer",
		Email:    email,
		Password: hashed,
		Role:     models.UserRoleAdmin,
		IsActive: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatalf("create user %s: %v", email, err)
	}
	fmt.Printf("Created admin user %s (id %d)\n", email, user.ID)
}
