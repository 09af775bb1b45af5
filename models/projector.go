package models

import "time"

const (
	// UnknownModelNo is the shared placeholder model for projectors whose model
	// could not be derived from any spreadsheet.
	UnknownModelNo = "UNKNOWN"

	ProjectorStatusActive = "active"
)

type ProjectorModel struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	ModelNo        string    `gorm:"column:model_no;type:varchar(191);uniqueIndex;not null" json:"model_no"`
	Manufacturer   string    `gorm:"column:manufacturer" json:"manufacturer"`
	Specifications string    `gorm:"column:specifications;type:text" json:"specifications"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type Projector struct {
	ID               uint       `gorm:"primaryKey;column:id" json:"id"`
	SerialNumber     string     `gorm:"column:serial_number;type:varchar(191);uniqueIndex;not null" json:"serial_number"`
	ProjectorModelID uint       `gorm:"column:projector_model_id;not null" json:"projector_model_id"`
	Status           string     `gorm:"column:status;type:varchar(32);not null;default:'active'" json:"status"`
	InstallDate      *time.Time `gorm:"column:install_date" json:"install_date,omitempty"`
	Notes            *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	ProjectorModel *ProjectorModel `gorm:"foreignKey:ProjectorModelID" json:"projector_model,omitempty"`
}

// Part is a catalogue entry used to canonicalize free-text defective part names.
type Part struct {
	ID               uint   `gorm:"primaryKey;column:id" json:"id"`
	PartNumber       string `gorm:"column:part_number;not null" json:"part_number"`
	PartName         string `gorm:"column:part_name;not null" json:"part_name"`
	ProjectorModelID uint   `gorm:"column:projector_model_id;not null" json:"projector_model_id"`
}

// TableName overrides
func (ProjectorModel) TableName() string {
	return "projector_models"
}

func (Projector) TableName() string {
	return "projectors"
}

func (Part) TableName() string {
	return "parts"
}
