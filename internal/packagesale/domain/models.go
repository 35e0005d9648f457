package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PackageSale records the sale of a catalog package to a customer.
// Immutable once created except for deletion.
type PackageSale struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	CustomerID     snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	PackageID      snowflake.ID    `gorm:"not null;index" json:"package_id"`
	ProfessionalID snowflake.ID    `gorm:"index" json:"professional_id,omitempty"`
	PackageName    string          `gorm:"not null" json:"package_name"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Paid           bool            `gorm:"not null;default:true" json:"paid"`
	PurchasedAt    time.Time       `gorm:"not null;index" json:"purchased_at"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PackageSale) TableName() string { return "package_sales" }

// IsExpired reports whether the sale has lapsed. Expiration beats any
// remaining balance: an expired sale is never listed as active.
func (s PackageSale) IsExpired(now time.Time) bool {
	return s.ExpirationDate != nil && s.ExpirationDate.Before(now)
}

// SessionBalance tracks the consumable sessions of one service line of
// one sale. sessions_remaining starts at the line quantity and only
// ever decreases, never below zero.
type SessionBalance struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	PackageSaleID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_session_balances_sale_service,priority:1" json:"package_sale_id"`
	ServiceID         snowflake.ID `gorm:"not null;uniqueIndex:ux_session_balances_sale_service,priority:2" json:"service_id"`
	Quantity          int          `gorm:"not null" json:"quantity"`
	SessionsRemaining int          `gorm:"not null" json:"sessions_remaining"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SessionBalance) TableName() string { return "session_balances" }

// CustomerPackage pairs a sale with its balances for listings.
type CustomerPackage struct {
	Sale     PackageSale      `json:"sale"`
	Balances []SessionBalance `json:"balances"`
}

// HasUsableSessions reports whether any balance still has sessions.
func (p CustomerPackage) HasUsableSessions() bool {
	for _, balance := range p.Balances {
		if balance.SessionsRemaining > 0 {
			return true
		}
	}
	return false
}
