package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/agendabela/agendabela/internal/professional/domain"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, professional *domain.Professional) error {
	return db.WithContext(ctx).Create(professional).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*domain.Professional, error) {
	var professional domain.Professional
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Professional{}), sc)
	err := stmt.Where("id = ?", id).First(&professional).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &professional, nil
}

func (r *repo) FindByIdentity(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, identity string) (*domain.Professional, error) {
	var professional domain.Professional
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND identity = ?", tenantID, strings.TrimSpace(identity)).
		First(&professional).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &professional, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, sc scopedomain.Scope) ([]*domain.Professional, error) {
	var professionals []*domain.Professional
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Professional{}), sc)
	err := stmt.Order("name asc, id asc").Find(&professionals).Error
	if err != nil {
		return nil, err
	}
	return professionals, nil
}
