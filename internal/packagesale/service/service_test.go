package service

import (
	"context"
	"testing"
	"time"

	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	catalogrepo "github.com/agendabela/agendabela/internal/catalog/repository"
	"github.com/agendabela/agendabela/internal/clock"
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	commissionrepo "github.com/agendabela/agendabela/internal/commission/repository"
	commissionservice "github.com/agendabela/agendabela/internal/commission/service"
	"github.com/agendabela/agendabela/internal/packagesale/domain"
	"github.com/agendabela/agendabela/internal/packagesale/repository"
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

type ledgerFixture struct {
	svc           domain.Service
	commissionSvc commissiondomain.Service
	conn          *gorm.DB
	node          *snowflake.Node
	clock         *clock.FakeClock
	tenantID      snowflake.ID
	ctx           context.Context
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&catalogdomain.Service{},
		&catalogdomain.Package{},
		&catalogdomain.PackageItem{},
		&domain.PackageSale{},
		&domain.SessionBalance{},
		&commissiondomain.CommissionRule{},
		&commissiondomain.CommissionRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))

	commissionSvc := commissionservice.New(commissionservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  commissionrepo.Provide(),
	})

	svc := New(Params{
		DB:            conn,
		Log:           zap.NewNop(),
		GenID:         node,
		Clock:         fake,
		Repo:          repository.Provide(),
		Catalog:       catalogrepo.Provide(),
		CommissionSvc: commissionSvc,
	})

	tenantID := node.Generate()
	ctx := scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:     scopedomain.RoleTenantScoped,
		TenantID: tenantID,
	})

	return &ledgerFixture{
		svc:           svc,
		commissionSvc: commissionSvc,
		conn:          conn,
		node:          node,
		clock:         fake,
		tenantID:      tenantID,
		ctx:           ctx,
	}
}

// seedPackage writes a package with one "Corte" line of the given
// quantity straight through the catalog repository.
func (f *ledgerFixture) seedPackage(t *testing.T, name string, price string, expiresAfterDays *int, quantity int) catalogdomain.Package {
	t.Helper()

	now := f.clock.Now()
	svc := catalogdomain.Service{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		Name:      "Corte",
		Price:     decimal.RequireFromString("50.00"),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.conn.Create(&svc).Error)

	pkg := catalogdomain.Package{
		ID:               f.node.Generate(),
		TenantID:         f.tenantID,
		Name:             name,
		Price:            decimal.RequireFromString(price),
		ExpiresAfterDays: expiresAfterDays,
		Active:           true,
		Items: []catalogdomain.PackageItem{
			{
				ID:        f.node.Generate(),
				ServiceID: svc.ID,
				Quantity:  quantity,
				Position:  0,
				CreatedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, catalogrepo.Provide().InsertPackage(context.Background(), f.conn, &pkg))
	return pkg
}

func TestSellCreatesBalancesAndCommission(t *testing.T) {
	f := newLedgerFixture(t)

	expiry := 30
	pkg := f.seedPackage(t, "Corte+Barba", "100.00", &expiry, 2)

	professional := f.node.Generate()
	_, err := f.commissionSvc.CreateRule(f.ctx, commissiondomain.CreateRuleRequest{
		ProfessionalID: professional.String(),
		Type:           commissiondomain.CommissionTypePackage,
		TargetID:       pkg.ID.String(),
		Calculation:    commissiondomain.CalculationTypePercentage,
		Value:          "15",
	})
	require.NoError(t, err)

	customer := f.node.Generate()
	resp, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID:     customer.String(),
		PackageID:      pkg.ID.String(),
		ProfessionalID: professional.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Warnings)

	assert.True(t, resp.Sale.Paid)
	assert.Equal(t, "Corte+Barba", resp.Sale.PackageName)
	require.NotNil(t, resp.Sale.ExpirationDate)
	assert.Equal(t, f.clock.Now().AddDate(0, 0, 30), *resp.Sale.ExpirationDate)

	require.Len(t, resp.Balances, 1)
	assert.Equal(t, 2, resp.Balances[0].Quantity)
	assert.Equal(t, 2, resp.Balances[0].SessionsRemaining)

	var records []commissiondomain.CommissionRecord
	require.NoError(t, f.conn.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, commissiondomain.CommissionTypePackage, records[0].Source)
	assert.True(t, records[0].CommissionAmount.Equal(decimal.RequireFromString("15.00")),
		"expected 15.00, got %s", records[0].CommissionAmount)
}

func TestSellWithoutProfessionalSkipsCommission(t *testing.T) {
	f := newLedgerFixture(t)
	pkg := f.seedPackage(t, "Corte Simples", "50.00", nil, 1)

	resp, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID: f.node.Generate().String(),
		PackageID:  pkg.ID.String(),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Sale.ExpirationDate)

	var count int64
	require.NoError(t, f.conn.Model(&commissiondomain.CommissionRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSellUnknownPackage(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID: f.node.Generate().String(),
		PackageID:  f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestRenewCreatesIndependentSale(t *testing.T) {
	f := newLedgerFixture(t)
	pkg := f.seedPackage(t, "Mensal", "80.00", nil, 4)

	customer := f.node.Generate()
	first, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID: customer.String(),
		PackageID:  pkg.ID.String(),
	})
	require.NoError(t, err)

	renewed, err := f.svc.Renew(f.ctx, first.Sale.ID.String())
	require.NoError(t, err)
	assert.NotEqual(t, first.Sale.ID, renewed.Sale.ID)
	assert.Equal(t, customer, renewed.Sale.CustomerID)
	require.Len(t, renewed.Balances, 1)
	assert.Equal(t, 4, renewed.Balances[0].SessionsRemaining)

	// The original sale and its balances are untouched.
	original, err := f.svc.GetByID(f.ctx, first.Sale.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, original.Balances[0].SessionsRemaining)
}

func TestDeleteRemovesSaleAndBalances(t *testing.T) {
	f := newLedgerFixture(t)
	pkg := f.seedPackage(t, "Mensal", "80.00", nil, 4)

	sold, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID: f.node.Generate().String(),
		PackageID:  pkg.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, sold.Sale.ID.String()))

	_, err = f.svc.GetByID(f.ctx, sold.Sale.ID.String())
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)

	var count int64
	require.NoError(t, f.conn.Model(&domain.SessionBalance{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, sold.Sale.ID.String()), domain.ErrSaleNotFound)
}

func TestListActiveExcludesExpiredSales(t *testing.T) {
	f := newLedgerFixture(t)

	expiry := 10
	pkg := f.seedPackage(t, "Quinzenal", "60.00", &expiry, 3)

	customer := f.node.Generate()
	_, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID: customer.String(),
		PackageID:  pkg.ID.String(),
	})
	require.NoError(t, err)

	active, err := f.svc.ListActive(f.ctx, customer.String())
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// Expiration wins even though all sessions remain.
	f.clock.Advance(11 * 24 * time.Hour)

	active, err = f.svc.ListActive(f.ctx, customer.String())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestListActiveExcludesDrainedSales(t *testing.T) {
	f := newLedgerFixture(t)
	pkg := f.seedPackage(t, "Avulso", "50.00", nil, 1)

	customer := f.node.Generate()
	sold, err := f.svc.Sell(f.ctx, domain.SellRequest{
		CustomerID: customer.String(),
		PackageID:  pkg.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, f.conn.Model(&domain.SessionBalance{}).
		Where("package_sale_id = ?", sold.Sale.ID).
		Update("sessions_remaining", 0).Error)

	active, err := f.svc.ListActive(f.ctx, customer.String())
	require.NoError(t, err)
	assert.Empty(t, active)
}
