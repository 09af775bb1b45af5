// Command cleanup-orphans deletes cases with no surviving evidence for their
// serial and reports the ones that lost their audi link. Set CLEANUP_DRY_RUN=true
// to only report.
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
	logger := config.InitLogger("cleanup-orphans")
	defer logger.Sync()

	config.InitDB()

	job := services.NewImportJobService(config.DB, logger)
	summary, _, err := job.Run(context.Background(), &services.ImportJobInput{
		Kind:          models.ImportKindCleanup,
		TriggerSource: "cli",
		RecordRun:     true,
	})
	if err != nil {
		if errors.Is(err, services.ErrImportAlreadyRunning) {
			log.Fatal("orphan cleanup already running (advisory lock held)")
		}
		log.Fatalf("orphan cleanup failed: %v", err)
	}

	summary.WriteText(os.Stdout)
}
