package domain

import (
	"context"
	"time"

	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListRecordFilter struct {
	From           time.Time
	To             time.Time
	ProfessionalID snowflake.ID
	Source         CommissionType
}

type Repository interface {
	InsertRule(ctx context.Context, db *gorm.DB, rule *CommissionRule) error
	// FindActiveRule returns the newest active rule for the target, or
	// nil when none is configured.
	FindActiveRule(ctx context.Context, db *gorm.DB, tenantID, professionalID snowflake.ID, commissionType CommissionType, targetID snowflake.ID) (*CommissionRule, error)
	FindRuleByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*CommissionRule, error)
	ListRules(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, professionalID snowflake.ID) ([]*CommissionRule, error)
	DeactivateRule(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertRecord(ctx context.Context, db *gorm.DB, record *CommissionRecord) error
	ListRecords(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, filter ListRecordFilter) ([]*CommissionRecord, error)
}
