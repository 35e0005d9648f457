package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Service is a sellable unit of work (a haircut, a massage).
type Service struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "services" }

// Package is a purchasable bundle of a fixed quantity of services,
// optionally expiring after a number of days.
type Package struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID         snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	Name             string          `gorm:"not null" json:"name"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ExpiresAfterDays *int            `json:"expires_after_days,omitempty"`
	Active           bool            `gorm:"not null;default:true" json:"active"`
	Items            []PackageItem   `gorm:"-" json:"items,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Package) TableName() string { return "packages" }

// PackageItem is one (service, quantity) line of a package.
type PackageItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	PackageID snowflake.ID `gorm:"not null;index" json:"package_id"`
	ServiceID snowflake.ID `gorm:"not null;index" json:"service_id"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	Position  int          `gorm:"not null" json:"position"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PackageItem) TableName() string { return "package_line_items" }
