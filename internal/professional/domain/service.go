package domain

import (
	"context"
	"errors"
)

type CreateProfessionalRequest struct {
	Identity string
	Name     string
	Email    string
}

type GetProfessionalRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateProfessionalRequest) (Professional, error)
	List(context.Context) ([]Professional, error)
	GetByID(context.Context, GetProfessionalRequest) (Professional, error)
}

var (
	ErrInvalidScope    = errors.New("invalid_scope")
	ErrInvalidIdentity = errors.New("invalid_identity")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
