package models

import (
	"time"

	"gorm.io/datatypes"
)

const AuditActionImported = "imported"

// AuditLog is tied to a case by (case_id, case_type). No foreign key cascades it,
// so whoever deletes a case deletes its audit rows too.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;column:id" json:"id"`
	CaseID    uint           `gorm:"column:case_id;not null;index:idx_audit_logs_case" json:"case_id"`
	CaseType  string         `gorm:"column:case_type;type:varchar(8);not null;index:idx_audit_logs_case" json:"case_type"`
	Action    string         `gorm:"column:action;type:varchar(64);not null" json:"action"`
	UserID    *uint          `gorm:"column:user_id" json:"user_id,omitempty"`
	Details   datatypes.JSON `gorm:"column:details;type:json" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
