package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	commissionrepo "github.com/agendabela/agendabela/internal/commission/repository"
	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	professionalrepo "github.com/agendabela/agendabela/internal/professional/repository"
	"github.com/agendabela/agendabela/internal/report/domain"
	"github.com/agendabela/agendabela/internal/scopectx"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/agendabela/agendabela/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reportFixture struct {
	svc      domain.Service
	conn     *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&commissiondomain.CommissionRecord{},
		&professionaldomain.Professional{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:               conn,
		Log:              zap.NewNop(),
		CommissionRepo:   commissionrepo.Provide(),
		ProfessionalRepo: professionalrepo.Provide(),
	})

	tenantID := node.Generate()
	ctx := scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:     scopedomain.RoleTenantScoped,
		TenantID: tenantID,
	})

	return &reportFixture{
		svc:      svc,
		conn:     conn,
		node:     node,
		tenantID: tenantID,
		ctx:      ctx,
	}
}

func (f *reportFixture) seedProfessional(t *testing.T, name string) snowflake.ID {
	t.Helper()

	now := time.Now().UTC()
	pro := professionaldomain.Professional{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		Identity:  name + "@example.com",
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.conn.Create(&pro).Error)
	return pro.ID
}

func (f *reportFixture) seedRecord(t *testing.T, professionalID snowflake.ID, source commissiondomain.CommissionType, subject, gross, commission string, occurredAt time.Time) {
	t.Helper()

	record := commissiondomain.CommissionRecord{
		ID:               f.node.Generate(),
		TenantID:         f.tenantID,
		ProfessionalID:   professionalID,
		Source:           source,
		TargetID:         f.node.Generate(),
		Subject:          subject,
		GrossAmount:      decimal.RequireFromString(gross),
		CommissionAmount: decimal.RequireFromString(commission),
		Calculation:      commissiondomain.CalculationTypePercentage,
		Value:            decimal.RequireFromString("15"),
		OccurredAt:       occurredAt,
		CreatedAt:        occurredAt,
	}
	require.NoError(t, commissionrepo.Provide().InsertRecord(context.Background(), f.conn, &record))
}

var (
	periodStart = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
)

func TestBuildPartitionsAndTotals(t *testing.T) {
	f := newReportFixture(t)

	ana := f.seedProfessional(t, "Ana")
	bia := f.seedProfessional(t, "Bia")

	f.seedRecord(t, bia, commissiondomain.CommissionTypeService, "Barba", "50.00", "0.00", time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC))
	f.seedRecord(t, ana, commissiondomain.CommissionTypeService, "Corte", "100.00", "15.00", time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC))
	f.seedRecord(t, bia, commissiondomain.CommissionTypePackage, "Corte+Barba", "200.00", "30.00", time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC))

	report, err := f.svc.Build(f.ctx, domain.BuildRequest{From: periodStart, To: periodEnd})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Services.Records)
	assert.True(t, report.Services.Gross.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, report.Services.Commission.Equal(decimal.RequireFromString("15.00")))

	assert.Equal(t, 1, report.Packages.Records)
	assert.True(t, report.Packages.Gross.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, report.Packages.Commission.Equal(decimal.RequireFromString("30.00")))

	assert.True(t, report.TotalGross.Equal(decimal.RequireFromString("350.00")))
	assert.True(t, report.TotalCommission.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, report.NetProfit.Equal(decimal.RequireFromString("305.00")))
	assert.Equal(t, 2, report.DistinctProfessionals)

	// Newest first.
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "Corte+Barba", report.Rows[0].Subject)
	assert.Equal(t, "Corte", report.Rows[1].Subject)
	assert.Equal(t, "Barba", report.Rows[2].Subject)
	assert.Equal(t, "Ana", report.Rows[1].Professional)
	assert.True(t, report.Rows[1].NetProfit.Equal(decimal.RequireFromString("85.00")))
}

func TestBuildEmptyPeriodYieldsZeroedReport(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.svc.Build(f.ctx, domain.BuildRequest{From: periodStart, To: periodEnd})
	require.NoError(t, err)

	assert.Empty(t, report.Rows)
	assert.Zero(t, report.Services.Records)
	assert.Zero(t, report.Packages.Records)
	assert.True(t, report.TotalGross.IsZero())
	assert.True(t, report.TotalCommission.IsZero())
	assert.True(t, report.NetProfit.IsZero())
	assert.Zero(t, report.DistinctProfessionals)
}

func TestBuildRejectsInvalidPeriod(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.Build(f.ctx, domain.BuildRequest{To: periodEnd})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = f.svc.Build(f.ctx, domain.BuildRequest{From: periodEnd, To: periodStart})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestBuildFiltersByProfessional(t *testing.T) {
	f := newReportFixture(t)

	ana := f.seedProfessional(t, "Ana")
	bia := f.seedProfessional(t, "Bia")
	f.seedRecord(t, ana, commissiondomain.CommissionTypeService, "Corte", "100.00", "15.00", time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC))
	f.seedRecord(t, bia, commissiondomain.CommissionTypeService, "Barba", "30.00", "3.00", time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC))

	report, err := f.svc.Build(f.ctx, domain.BuildRequest{
		From:           periodStart,
		To:             periodEnd,
		ProfessionalID: ana.String(),
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, ana, report.Rows[0].ProfessionalID)
}

func TestBuildPinsProfessionalsToOwnLedger(t *testing.T) {
	f := newReportFixture(t)

	ana := f.seedProfessional(t, "Ana")
	bia := f.seedProfessional(t, "Bia")
	f.seedRecord(t, ana, commissiondomain.CommissionTypeService, "Corte", "100.00", "15.00", time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC))
	f.seedRecord(t, bia, commissiondomain.CommissionTypeService, "Barba", "30.00", "3.00", time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC))

	anaCtx := scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:           scopedomain.RoleProfessional,
		TenantID:       f.tenantID,
		ProfessionalID: ana,
	})

	// Asking for another professional's ledger is overridden.
	report, err := f.svc.Build(anaCtx, domain.BuildRequest{
		From:           periodStart,
		To:             periodEnd,
		ProfessionalID: bia.String(),
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, ana, report.Rows[0].ProfessionalID)
}

func TestExportCSVWritesServiceRowsOnly(t *testing.T) {
	f := newReportFixture(t)

	ana := f.seedProfessional(t, "Ana")
	f.seedRecord(t, ana, commissiondomain.CommissionTypeService, "Corte", "100.00", "15.00", time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC))
	f.seedRecord(t, ana, commissiondomain.CommissionTypePackage, "Corte+Barba", "200.00", "30.00", time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC))

	out, err := f.svc.ExportCSV(f.ctx, domain.BuildRequest{From: periodStart, To: periodEnd})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Data", "Profissional", "Serviço", "Valor Bruto", "Comissão", "Valor Comissão", "Lucro Líquido"}, rows[0])
	assert.Equal(t, []string{"05/05/2024", "Ana", "Corte", "100.00", "15.00%", "15.00", "85.00"}, rows[1])
	assert.Equal(t, []string{"TOTAL", "", "", "100.00", "", "15.00", "85.00"}, rows[2])
}

func TestExportConsolidatedCSVDiscriminatesByType(t *testing.T) {
	f := newReportFixture(t)

	ana := f.seedProfessional(t, "Ana")
	f.seedRecord(t, ana, commissiondomain.CommissionTypeService, "Corte", "100.00", "15.00", time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC))
	f.seedRecord(t, ana, commissiondomain.CommissionTypePackage, "Corte+Barba", "200.00", "30.00", time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC))

	out, err := f.svc.ExportConsolidatedCSV(f.ctx, domain.BuildRequest{From: periodStart, To: periodEnd})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"Tipo", "Data", "Profissional", "Item/Serviço", "Valor Bruto", "Comissão", "Valor Comissão", "Lucro Líquido"}, rows[0])
	assert.Equal(t, []string{"Pacote", "08/05/2024", "Ana", "Corte+Barba", "200.00", "15.00%", "30.00", "170.00"}, rows[1])
	assert.Equal(t, []string{"Serviço", "05/05/2024", "Ana", "Corte", "100.00", "15.00%", "15.00", "85.00"}, rows[2])
	assert.Equal(t, []string{"TOTAL", "", "", "", "300.00", "", "45.00", "255.00"}, rows[3])
}

func TestExportPDFWithoutRenderer(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.ExportConsolidatedPDF(f.ctx, domain.BuildRequest{From: periodStart, To: periodEnd})
	assert.ErrorIs(t, err, domain.ErrRendererUnavailable)
}
