package domain

import (
	"context"
	"errors"

	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
)

type ConsumeRequest struct {
	SaleID    string
	ServiceID string
	// Sessions defaults to 1 when zero.
	Sessions int
}

type ConsumeResponse struct {
	Balance packagesaledomain.SessionBalance `json:"balance"`
}

type Service interface {
	// Consume debits sessions from a sale's balance for one service.
	// The debit is atomic: concurrent calls never overdraw the balance.
	Consume(context.Context, ConsumeRequest) (ConsumeResponse, error)
	Balances(ctx context.Context, saleID string) ([]packagesaledomain.SessionBalance, error)
}

var (
	ErrInvalidScope         = errors.New("invalid_scope")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidSessions      = errors.New("invalid_sessions")
	ErrSaleNotFound         = errors.New("sale_not_found")
	ErrSaleExpired          = errors.New("sale_expired")
	ErrBalanceNotFound      = errors.New("balance_not_found")
	ErrInsufficientSessions = errors.New("insufficient_sessions")
)
