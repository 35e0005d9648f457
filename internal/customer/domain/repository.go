package domain

import (
	"context"

	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/agendabela/agendabela/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListCustomerFilter struct {
	Name  string
	Email string
	Phone string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
}
