package services

import (
	"errors"
	"fmt"
	"time"

	"projector-crm-sync/config"
	"projector-crm-sync/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrImportRunNotFound = errors.New("import run not found")
)

const importRunColumns = "id, run_key, kind, trigger_source, dry_run, status, error_message, started_at, finished_at, duration_seconds, total_count, success_count, failed_count, deleted_count, kept_count"

// RunCounts are the totals stored on an import run row.
type RunCounts struct {
	Total   int
	Success int
	Failed  int
	Deleted int
	Kept    int
}

type ImportRunService struct {
	db *gorm.DB
}

func NewImportRunService(db *gorm.DB) *ImportRunService {
	if db == nil {
		db = config.DB
	}
	return &ImportRunService{db: db}
}

func (s *ImportRunService) Start(kind, trigger string, dryRun bool) (*models.ImportRun, error) {
	if trigger == "" {
		trigger = "unknown"
	}
	run := &models.ImportRun{
		RunKey:        uuid.NewString(),
		Kind:          kind,
		TriggerSource: trigger,
		DryRun:        dryRun,
		Status:        models.ImportRunStatusRunning,
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (s *ImportRunService) MarkSuccess(runID uint, counts RunCounts, report string, duration float64) error {
	return s.finish(runID, models.ImportRunStatusSuccess, counts, report, nil, duration)
}

func (s *ImportRunService) MarkFailure(runID uint, counts RunCounts, report string, err error, duration float64) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return s.finish(runID, models.ImportRunStatusFailed, counts, report, &msg, duration)
}

func (s *ImportRunService) finish(runID uint, status string, counts RunCounts, report string, errMsg *string, duration float64) error {
	updates := map[string]interface{}{
		"status":           status,
		"finished_at":      time.Now(),
		"duration_seconds": duration,
		"report":           truncateForLog(report),
		"total_count":      counts.Total,
		"success_count":    counts.Success,
		"failed_count":     counts.Failed,
		"deleted_count":    counts.Deleted,
		"kept_count":       counts.Kept,
	}
	if errMsg != nil {
		if len(*errMsg) > 2000 {
			updates["error_message"] = fmt.Sprintf("%s...", (*errMsg)[:1997])
		} else {
			updates["error_message"] = *errMsg
		}
	}
	res := s.db.Model(&models.ImportRun{}).Where("id = ?", runID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrImportRunNotFound
	}
	return nil
}

func (s *ImportRunService) GetByID(id uint) (*models.ImportRun, error) {
	var run models.ImportRun
	if err := s.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImportRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (s *ImportRunService) GetLatestCompleted() (*models.ImportRun, error) {
	return s.latest("status <> ?", models.ImportRunStatusRunning)
}

func (s *ImportRunService) GetRunning() (*models.ImportRun, error) {
	return s.latest("status = ?", models.ImportRunStatusRunning)
}

func (s *ImportRunService) latest(query string, args ...interface{}) (*models.ImportRun, error) {
	var run models.ImportRun
	err := s.db.Where(query, args...).
		Order("started_at DESC").
		Select(importRunColumns).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (s *ImportRunService) List(limit, offset int) ([]models.ImportRun, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&models.ImportRun{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []models.ImportRun
	err := s.db.Order("started_at DESC").
		Offset(offset).
		Limit(limit).
		Select(importRunColumns).
		Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func truncateForLog(s string) string {
	const maxLen = 100000
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s...", s[:maxLen-3])
}
