package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	ProfessionalID string
	Type           CommissionType
	TargetID       string
	Calculation    CalculationType
	Value          string
}

type RecordCommissionRequest struct {
	ProfessionalID snowflake.ID
	TargetID       snowflake.ID
	Subject        string
	GrossAmount    decimal.Decimal
	OccurredAt     time.Time
	// PackageSaleID marks a service delivery settled by a previously
	// sold package. Such deliveries never produce a service commission:
	// the commission was attributed when the package was sold.
	PackageSaleID snowflake.ID
}

type Service interface {
	CreateRule(context.Context, CreateRuleRequest) (CommissionRule, error)
	ListRules(ctx context.Context, professionalID string) ([]CommissionRule, error)
	DeactivateRule(ctx context.Context, id string) error

	RecordServiceCommission(context.Context, RecordCommissionRequest) (CommissionRecord, error)
	RecordPackageCommission(context.Context, RecordCommissionRequest) (CommissionRecord, error)
}

var (
	ErrInvalidScope        = errors.New("invalid_scope")
	ErrInvalidProfessional = errors.New("invalid_professional")
	ErrInvalidType         = errors.New("invalid_commission_type")
	ErrInvalidTarget       = errors.New("invalid_target")
	ErrInvalidCalculation  = errors.New("invalid_calculation_type")
	ErrInvalidValue        = errors.New("invalid_commission_value")
	ErrInvalidGross        = errors.New("invalid_gross_amount")
	ErrInvalidID           = errors.New("invalid_id")
	ErrDuplicateRule       = errors.New("duplicate_commission_rule")
	ErrRuleNotFound        = errors.New("rule_not_found")
	// ErrPackageSettledSale is returned when a service commission is
	// requested for a package-settled delivery. Callers treat it as a
	// no-op; recording anyway would double-count commission income.
	ErrPackageSettledSale = errors.New("package_settled_sale")
)
