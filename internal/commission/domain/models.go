package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CommissionType discriminates what a rule or record targets.
type CommissionType string

const (
	CommissionTypeService CommissionType = "service"
	CommissionTypePackage CommissionType = "package"
)

// CalculationType selects how the commission amount is derived.
type CalculationType string

const (
	CalculationTypeFixed      CalculationType = "fixed"
	CalculationTypePercentage CalculationType = "percentage"
)

// CommissionRule configures how one professional is paid for one target
// (a service or a package). At most one active rule may exist per
// (professional, type, target).
type CommissionRule struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	ProfessionalID snowflake.ID    `gorm:"not null;index" json:"professional_id"`
	Type           CommissionType  `gorm:"column:commission_type;type:text;not null" json:"commission_type"`
	TargetID       snowflake.ID    `gorm:"not null;index" json:"target_id"`
	Calculation    CalculationType `gorm:"column:calculation_type;type:text;not null" json:"calculation_type"`
	Value          decimal.Decimal `gorm:"column:commission_value;type:numeric(12,2);not null" json:"commission_value"`
	Active         bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CommissionRule) TableName() string { return "commission_rules" }

// CommissionRecord is the immutable ledger entry for one qualifying sale
// line. Its amount is reproducible from (gross, rule snapshot): records
// carry the calculation type and value resolved at derivation time.
type CommissionRecord struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID         snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	ProfessionalID   snowflake.ID    `gorm:"not null;index" json:"professional_id"`
	Source           CommissionType  `gorm:"type:text;not null;index" json:"source"`
	TargetID         snowflake.ID    `gorm:"not null" json:"target_id"`
	Subject          string          `gorm:"not null" json:"subject"`
	GrossAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"gross_amount"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"commission_amount"`
	Calculation      CalculationType `gorm:"column:calculation_type;type:text;not null" json:"calculation_type"`
	Value            decimal.Decimal `gorm:"column:commission_value;type:numeric(12,2);not null" json:"commission_value"`
	OccurredAt       time.Time       `gorm:"not null;index" json:"occurred_at"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CommissionRecord) TableName() string { return "commission_records" }
