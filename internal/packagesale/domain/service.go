package domain

import (
	"context"
	"errors"
)

type SellRequest struct {
	CustomerID     string
	PackageID      string
	ProfessionalID string
}

// SellResponse carries the sale plus any non-fatal warnings: commission
// recording is best-effort and never unwinds a completed sale.
type SellResponse struct {
	Sale     PackageSale      `json:"sale"`
	Balances []SessionBalance `json:"balances"`
	Warnings []string         `json:"warnings,omitempty"`
}

type Service interface {
	Sell(context.Context, SellRequest) (SellResponse, error)
	// Renew sells the same package again as a brand-new sale; the old
	// sale and its balances are left untouched.
	Renew(ctx context.Context, saleID string) (SellResponse, error)
	// Delete removes the sale and its balances. Destructive: any
	// remaining sessions are forfeited.
	Delete(ctx context.Context, saleID string) error
	GetByID(ctx context.Context, saleID string) (CustomerPackage, error)
	// ListActive lists non-expired sales that still have usable
	// sessions. Expiration wins over remaining balance.
	ListActive(ctx context.Context, customerID string) ([]CustomerPackage, error)
}

var (
	ErrInvalidScope        = errors.New("invalid_scope")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidProfessional = errors.New("invalid_professional")
	ErrInvalidID           = errors.New("invalid_id")
	ErrPackageNotFound     = errors.New("package_not_found")
	ErrSaleNotFound        = errors.New("sale_not_found")
)
