package domain

import (
	"context"
	"errors"
)

type CreateServiceRequest struct {
	Name  string
	Price string
}

type CreatePackageItemRequest struct {
	ServiceID string
	Quantity  int
}

type CreatePackageRequest struct {
	Name             string
	Price            string
	ExpiresAfterDays *int
	Items            []CreatePackageItemRequest
}

type GetRequest struct {
	ID string
}

type CatalogService interface {
	CreateService(context.Context, CreateServiceRequest) (Service, error)
	GetServiceByID(context.Context, GetRequest) (Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]Service, error)

	CreatePackage(context.Context, CreatePackageRequest) (Package, error)
	GetPackageByID(context.Context, GetRequest) (Package, error)
	ListPackages(ctx context.Context, activeOnly bool) ([]Package, error)
}

var (
	ErrInvalidScope     = errors.New("invalid_scope")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidExpiry    = errors.New("invalid_expiry")
	ErrInvalidItems     = errors.New("invalid_items")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrDuplicateService = errors.New("duplicate_service_item")
	ErrInvalidID        = errors.New("invalid_id")
	ErrServiceNotFound  = errors.New("service_not_found")
	ErrPackageNotFound  = errors.New("package_not_found")
)
