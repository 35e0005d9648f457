package domain

import (
	"time"

	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type BuildRequest struct {
	From time.Time
	To   time.Time
	// ProfessionalID narrows the report to one professional when set.
	ProfessionalID string
}

// Row is one commission record annotated for presentation.
type Row struct {
	OccurredAt       time.Time                        `json:"occurred_at"`
	ProfessionalID   snowflake.ID                     `json:"professional_id"`
	Professional     string                           `json:"professional"`
	Source           commissiondomain.CommissionType  `json:"source"`
	Subject          string                           `json:"subject"`
	Calculation      commissiondomain.CalculationType `json:"calculation_type"`
	Value            decimal.Decimal                  `json:"commission_value"`
	GrossAmount      decimal.Decimal                  `json:"gross_amount"`
	CommissionAmount decimal.Decimal                  `json:"commission_amount"`
	NetProfit        decimal.Decimal                  `json:"net_profit"`
}

// PartitionTotals aggregates one side of the ledger.
type PartitionTotals struct {
	Records    int             `json:"records"`
	Gross      decimal.Decimal `json:"gross"`
	Commission decimal.Decimal `json:"commission"`
}

// Report is the period aggregation over commission records. Rows are
// sorted descending by occurrence time.
type Report struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	Services PartitionTotals `json:"services"`
	Packages PartitionTotals `json:"packages"`

	TotalGross            decimal.Decimal `json:"total_gross"`
	TotalCommission       decimal.Decimal `json:"total_commission"`
	NetProfit             decimal.Decimal `json:"net_profit"`
	DistinctProfessionals int             `json:"distinct_professionals"`

	Rows []Row `json:"rows"`
}

// ServiceRows returns only the service-sale rows, in report order.
func (r Report) ServiceRows() []Row {
	rows := make([]Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Source == commissiondomain.CommissionTypeService {
			rows = append(rows, row)
		}
	}
	return rows
}
