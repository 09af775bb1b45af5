package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ImportRunStatusRunning = "running"
	ImportRunStatusSuccess = "success"
	ImportRunStatusFailed  = "failed"
)

const (
	ImportKindMaster     = "master"
	ImportKindCases      = "cases"
	ImportKindCleanup    = "cleanup"
	ImportKindDuplicates = "dedupe"
)

type ImportRun struct {
	ID            uint           `json:"run_id" gorm:"primaryKey;autoIncrement"`
	RunKey        string         `json:"run_key" gorm:"column:run_key;type:char(36);uniqueIndex;not null"`
	Kind          string         `json:"kind" gorm:"type:varchar(16);not null"`
	TriggerSource string         `json:"trigger_source" gorm:"type:varchar(64);not null"`
	DryRun        bool           `json:"dry_run" gorm:"column:dry_run;not null;default:false"`
	Status        string         `json:"status" gorm:"type:enum('running','success','failed');not null;default:'running'"`
	ErrorMessage  *string        `json:"error_message,omitempty" gorm:"type:text"`
	StartedAt     time.Time      `json:"started_at" gorm:"column:started_at;autoCreateTime"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty" gorm:"column:finished_at"`
	Duration      *float64       `json:"duration_seconds,omitempty" gorm:"column:duration_seconds"`
	TotalCount    uint           `json:"total_count" gorm:"column:total_count;not null;default:0"`
	SuccessCount  uint           `json:"success_count" gorm:"column:success_count;not null;default:0"`
	FailedCount   uint           `json:"failed_count" gorm:"column:failed_count;not null;default:0"`
	DeletedCount  uint           `json:"deleted_count" gorm:"column:deleted_count;not null;default:0"`
	KeptCount     uint           `json:"kept_count" gorm:"column:kept_count;not null;default:0"`
	Report        string         `json:"-" gorm:"column:report;type:longtext"`
	CreatedAt     time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (ImportRun) TableName() string { return "import_runs" }
