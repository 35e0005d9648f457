package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, professional *Professional) error
	FindByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*Professional, error)
	FindByIdentity(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, identity string) (*Professional, error)
	List(ctx context.Context, db *gorm.DB, sc scopedomain.Scope) ([]*Professional, error)
}
