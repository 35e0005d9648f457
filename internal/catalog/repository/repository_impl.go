package repository

import (
	"context"
	"errors"

	"github.com/agendabela/agendabela/internal/catalog/domain"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertService(ctx context.Context, db *gorm.DB, service *domain.Service) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *repo) FindServiceByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*domain.Service, error) {
	var service domain.Service
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Service{}), sc)
	err := stmt.Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *repo) ListServices(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, activeOnly bool) ([]*domain.Service, error) {
	var services []*domain.Service
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Service{}), sc)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.Order("name asc, id asc").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repo) InsertPackage(ctx context.Context, db *gorm.DB, pkg *domain.Package) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(pkg).Error; err != nil {
			return err
		}
		for i := range pkg.Items {
			pkg.Items[i].PackageID = pkg.ID
			if err := tx.Create(&pkg.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) FindPackageByID(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, id snowflake.ID) (*domain.Package, error) {
	var pkg domain.Package
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Package{}), sc)
	err := stmt.Where("id = ?", id).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadItems(ctx, db, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repo) FindPackageByName(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, name string) (*domain.Package, error) {
	var pkg domain.Package
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Package{}), sc)
	err := stmt.Where("name = ?", name).Order("created_at desc").First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadItems(ctx, db, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repo) ListPackages(ctx context.Context, db *gorm.DB, sc scopedomain.Scope, activeOnly bool) ([]*domain.Package, error) {
	var packages []*domain.Package
	stmt := scopedomain.Apply(db.WithContext(ctx).Model(&domain.Package{}), sc)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.Order("name asc, id asc").Find(&packages).Error
	if err != nil {
		return nil, err
	}
	for _, pkg := range packages {
		if err := r.loadItems(ctx, db, pkg); err != nil {
			return nil, err
		}
	}
	return packages, nil
}

func (r *repo) loadItems(ctx context.Context, db *gorm.DB, pkg *domain.Package) error {
	return db.WithContext(ctx).
		Where("package_id = ?", pkg.ID).
		Order("position asc").
		Find(&pkg.Items).Error
}
