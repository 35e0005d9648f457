package domain

import (
	"context"
	"time"

	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Debit decrements sessions_remaining by the given amount, guarded
	// by a conditional update so the balance never goes negative. It
	// reports whether a row was actually debited.
	Debit(ctx context.Context, db *gorm.DB, saleID, serviceID snowflake.ID, sessions int, now time.Time) (bool, error)
	FindBalance(ctx context.Context, db *gorm.DB, saleID, serviceID snowflake.ID) (*packagesaledomain.SessionBalance, error)
}
