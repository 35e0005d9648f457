package service

import (
	"context"
	"testing"

	"github.com/agendabela/agendabela/internal/customer/domain"
	"github.com/agendabela/agendabela/internal/customer/repository"
	"github.com/agendabela/agendabela/internal/scopectx"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	"github.com/agendabela/agendabela/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCustomer(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func tenantCtx(tenantID snowflake.ID) context.Context {
	return scopectx.WithScope(context.Background(), scopedomain.Scope{
		Role:     scopedomain.RoleTenantScoped,
		TenantID: tenantID,
	})
}

func TestCreateCustomerValidatesName(t *testing.T) {
	svc, node := newTestCustomer(t)
	ctx := tenantCtx(node.Generate())

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{Name: "Maria"})
	assert.ErrorIs(t, err, domain.ErrInvalidScope)
}

func TestListCustomersPaginates(t *testing.T) {
	svc, node := newTestCustomer(t)
	ctx := tenantCtx(node.Generate())

	for _, name := range []string{"Maria", "João", "Paula"} {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Customers, 2)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextPageToken)

	all, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 3)
	assert.False(t, all.HasMore)
}

func TestCustomersAreTenantScoped(t *testing.T) {
	svc, node := newTestCustomer(t)

	tenantA := tenantCtx(node.Generate())
	tenantB := tenantCtx(node.Generate())

	maria, err := svc.Create(tenantA, domain.CreateCustomerRequest{Name: "Maria", Email: "maria@example.com"})
	require.NoError(t, err)

	got, err := svc.GetByID(tenantA, domain.GetCustomerRequest{ID: maria.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", got.Email)

	_, err = svc.GetByID(tenantB, domain.GetCustomerRequest{ID: maria.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
