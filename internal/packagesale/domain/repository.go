package domain

import (
	"context"

	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertSale(ctx context.Context, tx *gorm.DB, sale *PackageSale) error
	InsertBalances(ctx context.Context, tx *gorm.DB, balances []SessionBalance) error
	FindSaleByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*PackageSale, error)
	ListSales(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, customerID snowflake.ID) ([]*PackageSale, error)
	ListBalances(ctx context.Context, db *gorm.DB, saleID snowflake.ID) ([]SessionBalance, error)
	DeleteBalances(ctx context.Context, tx *gorm.DB, saleID snowflake.ID) error
	DeleteSale(ctx context.Context, tx *gorm.DB, saleID snowflake.ID) error
}
