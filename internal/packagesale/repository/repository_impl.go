package repository

import (
	"context"
	"errors"

	"github.com/agendabela/agendabela/internal/packagesale/domain"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSale(ctx context.Context, tx *gorm.DB, sale *domain.PackageSale) error {
	return tx.WithContext(ctx).Create(sale).Error
}

func (r *repo) InsertBalances(ctx context.Context, tx *gorm.DB, balances []domain.SessionBalance) error {
	if len(balances) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(balances).Error
}

func (r *repo) FindSaleByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*domain.PackageSale, error) {
	var sale domain.PackageSale
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.PackageSale{}), sc)
	err := stmt.Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repo) ListSales(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, customerID snowflake.ID) ([]*domain.PackageSale, error) {
	var sales []*domain.PackageSale
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.PackageSale{}), sc)
	if customerID != 0 {
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	err := stmt.Order("purchased_at desc, id desc").Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repo) ListBalances(ctx context.Context, db *gorm.DB, saleID snowflake.ID) ([]domain.SessionBalance, error) {
	var balances []domain.SessionBalance
	err := db.WithContext(ctx).
		Where("package_sale_id = ?", saleID).
		Order("id asc").
		Find(&balances).Error
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *repo) DeleteBalances(ctx context.Context, tx *gorm.DB, saleID snowflake.ID) error {
	return tx.WithContext(ctx).
		Where("package_sale_id = ?", saleID).
		Delete(&domain.SessionBalance{}).Error
}

func (r *repo) DeleteSale(ctx context.Context, tx *gorm.DB, saleID snowflake.ID) error {
	return tx.WithContext(ctx).
		Where("id = ?", saleID).
		Delete(&domain.PackageSale{}).Error
}
