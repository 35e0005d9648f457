package domain

import (
	"context"
	"errors"

	"github.com/agendabela/agendabela/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name  string
	Email string
	Phone string
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Name      string
	Email     string
	Phone     string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidScope = errors.New("invalid_scope")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
