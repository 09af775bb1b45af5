// Command import-master loads the master-data workbooks from the data directory.
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
	logger := config.InitLogger("import-master")
	defer logger.Sync()

	config.InitDB()

	job := services.NewImportJobService(config.DB, logger)
	summary, _, err := job.Run(context.Background(), &services.ImportJobInput{
		Kind:          models.ImportKindMaster,
		TriggerSource: "cli",
		RecordRun:     true,
	})
	if err != nil {
		if errors.Is(err, services.ErrImportAlreadyRunning) {
			log.Fatal("master import already running (advisory lock held)")
		}
		log.Fatalf("master import failed: %v", err)
	}

	summary.WriteText(os.Stdout)
}
