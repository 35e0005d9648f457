package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agendabela/agendabela/internal/clock"
	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	packagesalerepo "github.com/agendabela/agendabela/internal/packagesale/repository"
	"github.com/agendabela/agendabela/internal/scopectx"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/agendabela/agendabela/internal/session/domain"
	"github.com/agendabela/agendabela/internal/session/repository"
	"github.com/agendabela/agendabela/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type consumeFixture struct {
	svc      domain.Service
	conn     *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	tenantID snowflake.ID
	ctx      context.Context
}

func newConsumeFixture(t *testing.T) *consumeFixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&packagesaledomain.PackageSale{},
		&packagesaledomain.SessionBalance{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		Clock:    fake,
		Repo:     repository.Provide(),
		SaleRepo: packagesalerepo.Provide(),
	})

	tenantID := node.Generate()
	ctx := scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:     scopedomain.RoleTenantScoped,
		TenantID: tenantID,
	})

	return &consumeFixture{
		svc:      svc,
		conn:     conn,
		node:     node,
		clock:    fake,
		tenantID: tenantID,
		ctx:      ctx,
	}
}

// seedSale writes a sale with a single balance of the given quantity.
func (f *consumeFixture) seedSale(t *testing.T, quantity int, expirationDate *time.Time) (packagesaledomain.PackageSale, snowflake.ID) {
	t.Helper()

	now := f.clock.Now()
	sale := packagesaledomain.PackageSale{
		ID:             f.node.Generate(),
		TenantID:       f.tenantID,
		CustomerID:     f.node.Generate(),
		PackageID:      f.node.Generate(),
		PackageName:    "Corte Mensal",
		Price:          decimal.RequireFromString("80.00"),
		Paid:           true,
		PurchasedAt:    now,
		ExpirationDate: expirationDate,
		CreatedAt:      now,
	}
	serviceID := f.node.Generate()
	balance := packagesaledomain.SessionBalance{
		ID:                f.node.Generate(),
		PackageSaleID:     sale.ID,
		ServiceID:         serviceID,
		Quantity:          quantity,
		SessionsRemaining: quantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	repo := packagesalerepo.Provide()
	require.NoError(t, repo.InsertSale(context.Background(), f.conn, &sale))
	require.NoError(t, repo.InsertBalances(context.Background(), f.conn, []packagesaledomain.SessionBalance{balance}))
	return sale, serviceID
}

func TestConsumeDrainsBalanceToZero(t *testing.T) {
	f := newConsumeFixture(t)
	sale, serviceID := f.seedSale(t, 2, nil)

	req := domain.ConsumeRequest{SaleID: sale.ID.String(), ServiceID: serviceID.String()}

	resp, err := f.svc.Consume(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Balance.SessionsRemaining)

	resp, err = f.svc.Consume(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Balance.SessionsRemaining)

	_, err = f.svc.Consume(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInsufficientSessions)
}

func TestConsumeUnknownService(t *testing.T) {
	f := newConsumeFixture(t)
	sale, _ := f.seedSale(t, 2, nil)

	_, err := f.svc.Consume(f.ctx, domain.ConsumeRequest{
		SaleID:    sale.ID.String(),
		ServiceID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrBalanceNotFound)
}

func TestConsumeUnknownSale(t *testing.T) {
	f := newConsumeFixture(t)

	_, err := f.svc.Consume(f.ctx, domain.ConsumeRequest{
		SaleID:    f.node.Generate().String(),
		ServiceID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestConsumeRejectsExpiredSaleWithRemainingBalance(t *testing.T) {
	f := newConsumeFixture(t)

	expiration := f.clock.Now().Add(24 * time.Hour)
	sale, serviceID := f.seedSale(t, 5, &expiration)

	f.clock.Advance(48 * time.Hour)

	_, err := f.svc.Consume(f.ctx, domain.ConsumeRequest{
		SaleID:    sale.ID.String(),
		ServiceID: serviceID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrSaleExpired)

	// The balance itself is untouched.
	balance, err := repository.Provide().FindBalance(context.Background(), f.conn, sale.ID, serviceID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, 5, balance.SessionsRemaining)
}

func TestConsumeRejectsNegativeSessions(t *testing.T) {
	f := newConsumeFixture(t)
	sale, serviceID := f.seedSale(t, 2, nil)

	_, err := f.svc.Consume(f.ctx, domain.ConsumeRequest{
		SaleID:    sale.ID.String(),
		ServiceID: serviceID.String(),
		Sessions:  -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSessions)
}

func TestConsumeConcurrentNeverOverdraws(t *testing.T) {
	f := newConsumeFixture(t)
	sale, serviceID := f.seedSale(t, 10, nil)

	const callers = 100
	var (
		wg           sync.WaitGroup
		successes    atomic.Int64
		insufficient atomic.Int64
		unexpected   atomic.Int64
	)

	req := domain.ConsumeRequest{SaleID: sale.ID.String(), ServiceID: serviceID.String(), Sessions: 1}
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.svc.Consume(f.ctx, req)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrInsufficientSessions):
				insufficient.Add(1)
			default:
				unexpected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, successes.Load())
	assert.EqualValues(t, 90, insufficient.Load())
	assert.Zero(t, unexpected.Load())

	balance, err := repository.Provide().FindBalance(context.Background(), f.conn, sale.ID, serviceID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, 0, balance.SessionsRemaining)
}

func TestBalancesListsAllLines(t *testing.T) {
	f := newConsumeFixture(t)
	sale, serviceID := f.seedSale(t, 3, nil)

	balances, err := f.svc.Balances(f.ctx, sale.ID.String())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, serviceID, balances[0].ServiceID)
	assert.Equal(t, 3, balances[0].SessionsRemaining)
}

func TestBalancesFromOtherTenantNotFound(t *testing.T) {
	f := newConsumeFixture(t)
	sale, _ := f.seedSale(t, 3, nil)

	other := scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:     scopedomain.RoleTenantScoped,
		TenantID: f.node.Generate(),
	})
	_, err := f.svc.Balances(other, sale.ID.String())
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}
