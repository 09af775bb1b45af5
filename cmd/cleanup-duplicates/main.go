// Command cleanup-duplicates removes suffixed cases (C-1, C-2) that duplicate an existing case for the same serial.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"projector-crm-sync/config"
	"projector-crm-sync/models"
	"projector-crm-sync/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	logger := config.InitLogger("cleanup-duplicates")
	defer logger.Sync()

	config.InitDB()

	job := services.NewImportJobService(config.DB, logger)
	summary, _, err := job.Run(context.Background(), &services.ImportJobInput{
		Kind:          models.ImportKindDuplicates,
		TriggerSource: "cli",
		RecordRun:     true,
	})
	if err != nil {
		if errors.Is(err, services.ErrImportAlreadyRunning) {
			log.Fatal("duplicate cleanup already running (advisory lock held)")
		}
		log.Fatalf("duplicate cleanup failed: %v", err)
	}

	summary.WriteText(os.Stdout)
}
