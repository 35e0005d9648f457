package repository

import (
	"context"
	"errors"

	"github.com/agendabela/agendabela/internal/commission/domain"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertRule(ctx context.Context, db *gorm.DB, rule *domain.CommissionRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) FindActiveRule(ctx context.Context, db *gorm.DB, tenantID, professionalID snowflake.ID, commissionType domain.CommissionType, targetID snowflake.ID) (*domain.CommissionRule, error) {
	var rule domain.CommissionRule
	stmt := db.WithContext(ctx).
		Where("professional_id = ? AND commission_type = ? AND target_id = ? AND active = ?",
			professionalID, commissionType, targetID, true)
	if tenantID != 0 {
		stmt = stmt.Where("tenant_id = ?", tenantID)
	}
	err := stmt.Order("created_at desc, id desc").First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repo) FindRuleByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*domain.CommissionRule, error) {
	var rule domain.CommissionRule
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.CommissionRule{}), sc)
	err := stmt.Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repo) ListRules(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, professionalID snowflake.ID) ([]*domain.CommissionRule, error) {
	var rules []*domain.CommissionRule
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.CommissionRule{}), sc)
	if professionalID != 0 {
		stmt = stmt.Where("professional_id = ?", professionalID)
	}
	err := stmt.Order("created_at desc, id desc").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) DeactivateRule(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.CommissionRule{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (r *repo) InsertRecord(ctx context.Context, db *gorm.DB, record *domain.CommissionRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) ListRecords(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, filter domain.ListRecordFilter) ([]*domain.CommissionRecord, error) {
	var records []*domain.CommissionRecord
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.CommissionRecord{}), sc)
	if !filter.From.IsZero() {
		stmt = stmt.Where("occurred_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		stmt = stmt.Where("occurred_at <= ?", filter.To)
	}
	if filter.ProfessionalID != 0 {
		stmt = stmt.Where("professional_id = ?", filter.ProfessionalID)
	}
	if filter.Source != "" {
		stmt = stmt.Where("source = ?", filter.Source)
	}
	err := stmt.Order("occurred_at desc, id desc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
