// Command import-cases imports DTR and RMA cases, creating the master data they
// reference when it is missing.
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
	logger := config.InitLogger("import-cases")
	defer logger.Sync()

	config.InitDB()

	job := services.NewImportJobService(config.DB, logger)
	summary, _, err := job.Run(context.Background(), &services.ImportJobInput{
		Kind:          models.ImportKindCases,
		TriggerSource: "cli",
		RecordRun:     true,
	})
	if err != nil {
		if errors.Is(err, services.ErrImportAlreadyRunning) {
			log.Fatal("case import already running (advisory lock held)")
		}
		log.Fatalf("case import failed: %v", err)
	}

	summary.WriteText(os.Stdout)
}
