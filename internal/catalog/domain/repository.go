package domain

import (
	"context"

	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertService(ctx context.Context, db *gorm.DB, service *Service) error
	FindServiceByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*Service, error)
	ListServices(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, activeOnly bool) ([]*Service, error)

	// InsertPackage persists the package header and all line items.
	InsertPackage(ctx context.Context, db *gorm.DB, pkg *Package) error
	// FindPackageByID loads the package with its line items in position
	// order; nil when absent.
	FindPackageByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*Package, error)
	FindPackageByName(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, name string) (*Package, error)
	ListPackages(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, activeOnly bool) ([]*Package, error)
}
