package models

import "time"

const (
	CaseTypeDTR = "DTR"
	CaseTypeRMA = "RMA"
)

// DTRCase is a daily technical report ticket raised against a projector on site.
type DTRCase struct {
	ID              uint       `gorm:"primaryKey;column:id" json:"id"`
	CaseNumber      string     `gorm:"column:case_number;type:varchar(191);uniqueIndex;not null" json:"case_number"`
	ErrorDate       *time.Time `gorm:"column:error_date" json:"error_date,omitempty"`
	SiteID          uint       `gorm:"column:site_id;not null" json:"site_id"`
	AudiID          uint       `gorm:"column:audi_id;not null" json:"audi_id"`
	SerialNumber    string     `gorm:"column:serial_number;not null" json:"serial_number"`
	UnitModel       *string    `gorm:"column:unit_model" json:"unit_model,omitempty"`
	NatureOfProblem *string    `gorm:"column:nature_of_problem;type:text" json:"nature_of_problem,omitempty"`
	ActionTaken     *string    `gorm:"column:action_taken;type:text" json:"action_taken,omitempty"`
	Remarks         *string    `gorm:"column:remarks;type:text" json:"remarks,omitempty"`
	Status          string     `gorm:"column:status;type:varchar(32);not null;default:'open'" json:"status"`
	Severity        string     `gorm:"column:severity;type:varchar(16);not null;default:'medium'" json:"severity"`
	CallStatus      *string    `gorm:"column:call_status" json:"call_status,omitempty"`
	CreatedBy       uint       `gorm:"column:created_by;not null" json:"created_by"`
	AssignedTo      *uint      `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	ClosedAt        *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// RMACase tracks a defective-part return/replacement cycle.
type RMACase struct {
	ID                  uint       `gorm:"primaryKey;column:id" json:"id"`
	RMANumber           *string    `gorm:"column:rma_number;type:varchar(191);uniqueIndex" json:"rma_number"`
	CallLogNumber       *string    `gorm:"column:call_log_number;type:varchar(191);uniqueIndex" json:"call_log_number"`
	RMAType             string     `gorm:"column:rma_type;type:varchar(16);not null;default:'RMA'" json:"rma_type"`
	RMARaisedDate       *time.Time `gorm:"column:rma_raised_date" json:"rma_raised_date,omitempty"`
	CustomerErrorDate   *time.Time `gorm:"column:customer_error_date" json:"customer_error_date,omitempty"`
	SiteID              uint       `gorm:"column:site_id;not null" json:"site_id"`
	AudiID              *uint      `gorm:"column:audi_id" json:"audi_id,omitempty"`
	SerialNumber        string     `gorm:"column:serial_number;not null" json:"serial_number"`
	ProductName         *string    `gorm:"column:product_name" json:"product_name,omitempty"`
	ProductPartNumber   *string    `gorm:"column:product_part_number" json:"product_part_number,omitempty"`
	DefectivePartNumber *string    `gorm:"column:defective_part_number" json:"defective_part_number,omitempty"`
	DefectivePartName   *string    `gorm:"column:defective_part_name" json:"defective_part_name,omitempty"`
	DefectivePartSerial *string    `gorm:"column:defective_part_serial" json:"defective_part_serial,omitempty"`
	ReplacedPartNumber  *string    `gorm:"column:replaced_part_number" json:"replaced_part_number,omitempty"`
	ReplacedPartSerial  *string    `gorm:"column:replaced_part_serial" json:"replaced_part_serial,omitempty"`
	Symptoms            *string    `gorm:"column:symptoms;type:text" json:"symptoms,omitempty"`
	IsDefectivePartDNR  bool       `gorm:"column:is_defective_part_dnr;not null;default:false" json:"is_defective_part_dnr"`
	ShippedDate         *time.Time `gorm:"column:shipped_date" json:"shipped_date,omitempty"`
	TrackingNumber      *string    `gorm:"column:tracking_number" json:"tracking_number,omitempty"`
	Status              string     `gorm:"column:status;type:varchar(48);not null;default:'open'" json:"status"`
	Notes               *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedBy           uint       `gorm:"column:created_by;not null" json:"created_by"`
	AssignedTo          *uint      `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides
func (DTRCase) TableName() string {
	return "dtr_cases"
}

func (RMACase) TableName() string {
	return "rma_cases"
}
