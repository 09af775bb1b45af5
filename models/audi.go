package models

import (
	"strings"
	"time"
)

// PlaceholderAudiPrefix marks audis synthesized for cases whose projector had no
// known auditorium. They are reconciled against audis.xlsx later.
const PlaceholderAudiPrefix = "AUTO-"

type Audi struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	SiteID      uint      `gorm:"column:site_id;not null;uniqueIndex:idx_audis_site_audi" json:"site_id"`
	AudiNo      string    `gorm:"column:audi_no;type:varchar(64);not null;uniqueIndex:idx_audis_site_audi" json:"audi_no"`
	ProjectorID *uint     `gorm:"column:projector_id" json:"projector_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	Site      *Site      `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Projector *Projector `gorm:"foreignKey:ProjectorID" json:"projector,omitempty"`
}

func (Audi) TableName() string {
	return "audis"
}

// IsPlaceholder reports whether the audi was synthesized during a case import.
func (a *Audi) IsPlaceholder() bool {
	return a != nil && strings.HasPrefix(strings.ToUpper(a.AudiNo), PlaceholderAudiPrefix)
}
