package models

import "time"

// Site is the root of the location hierarchy (a cinema or venue).
type Site struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(191);uniqueIndex;not null" json:"name"`
	Address   *string   `gorm:"column:address" json:"address,omitempty"`
	Region    *string   `gorm:"column:region" json:"region,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Audis []Audi `gorm:"foreignKey:SiteID" json:"audis,omitempty"`
}

func (Site) TableName() string {
	return "sites"
}
