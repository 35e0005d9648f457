package repository

import (
	"context"
	"errors"
	"time"

	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	"github.com/agendabela/agendabela/internal/session/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Debit relies on the database to serialize concurrent consumers: the
// sessions_remaining guard in the WHERE clause makes the decrement a
// compare-and-swap, so a balance can never go below zero.
func (r *repo) Debit(ctx context.Context, db *gorm.DB, saleID, serviceID snowflake.ID, sessions int, now time.Time) (bool, error) {
	result := db.WithContext(ctx).
		Model(&packagesaledomain.SessionBalance{}).
		Where("package_sale_id = ? AND service_id = ? AND sessions_remaining >= ?", saleID, serviceID, sessions).
		Updates(map[string]any{
			"sessions_remaining": gorm.Expr("sessions_remaining - ?", sessions),
			"updated_at":         now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindBalance(ctx context.Context, db *gorm.DB, saleID, serviceID snowflake.ID) (*packagesaledomain.SessionBalance, error) {
	var balance packagesaledomain.SessionBalance
	err := db.WithContext(ctx).
		Where("package_sale_id = ? AND service_id = ?", saleID, serviceID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}
